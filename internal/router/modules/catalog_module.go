package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	repo "github.com/adisatriyo/inventory-api/internal/domain/repository"
	handlers "github.com/adisatriyo/inventory-api/internal/interface/http"
	"github.com/adisatriyo/inventory-api/internal/interface/middleware"
	"github.com/adisatriyo/inventory-api/pkg/helpers"
)

// CatalogModule wires the category and product handlers behind the request
// gate: bearer token validation, then actor hydration.
type CatalogModule struct {
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	JWT        *helpers.JWTManager
	Users      repo.UserRepository
	Redis      *redis.Client
	CacheTTL   time.Duration
	Logger     *logrus.Logger
}

func NewCatalogModule(categories *handlers.CategoryHandler, products *handlers.ProductHandler, jwt *helpers.JWTManager, users repo.UserRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *CatalogModule {
	return &CatalogModule{
		Categories: categories,
		Products:   products,
		JWT:        jwt,
		Users:      users,
		Redis:      rdb,
		CacheTTL:   cacheTTL,
		Logger:     logger,
	}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(
		middleware.BearerAuth(m.JWT),
		middleware.HydrateActor(m.Users, m.Redis, m.CacheTTL, m.Logger),
	)
	{
		auth.GET("/categories", m.Categories.List)
		auth.POST("/categories", m.Categories.Create)
		auth.DELETE("/categories/:id", m.Categories.Delete)

		auth.GET("/products", m.Products.List)
		auth.GET("/products/:id", m.Products.Get)
		auth.POST("/products", m.Products.Create)
		auth.PUT("/products/:id", m.Products.Update)
		auth.DELETE("/products/:id", m.Products.Delete)
		auth.POST("/products/:id/image", m.Products.UploadImage)

		// Elasticsearch-backed lookup; lives off /products to keep the
		// :id wildcard unambiguous.
		auth.GET("/search/products", m.Products.Search)
	}
}
