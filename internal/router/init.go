package router

import (
	"github.com/adisatriyo/inventory-api/internal/application"
	"github.com/adisatriyo/inventory-api/internal/container"
	pginfra "github.com/adisatriyo/inventory-api/internal/infrastructure/postgres"
	handlers "github.com/adisatriyo/inventory-api/internal/interface/http"
	"github.com/adisatriyo/inventory-api/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup after the container holds the
// infra singletons.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	categories := pginfra.NewCategoryRepository(pool)
	products := pginfra.NewProductRepository(pool)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger)

	catalogSvc := application.NewCatalogService(categories, products, logger)
	catalogSvc.ES = container.GetES()
	catalogSvc.ESProductsIndex = cfg.ESProductsIndex
	if pub := container.GetRabbitPub(); pub != nil {
		catalogSvc.Publisher = pub
	}
	catalogSvc.LowStockThreshold = cfg.LowStockThreshold
	catalogSvc.GCS = container.GetGCS()
	catalogSvc.GCSBucket = cfg.GCSBucket

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewCatalogModule(
		handlers.NewCategoryHandler(catalogSvc, logger),
		handlers.NewProductHandler(catalogSvc, logger),
		container.GetJWT(),
		users,
		container.GetRedis(),
		cfg.UserCacheTTL,
		logger,
	))
	r.Add(modules.NewSystemModule(pool, cfg.MetricsEnabled))
}
