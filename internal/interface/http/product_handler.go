package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/application"
	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	"github.com/adisatriyo/inventory-api/internal/interface/middleware"
	"github.com/adisatriyo/inventory-api/pkg/response"
	"github.com/adisatriyo/inventory-api/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.CatalogService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type productRequest struct {
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	CategoryID int64  `json:"categoryId"`
	URL        string `json:"url"`
}

type productResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Qty        int       `json:"qty"`
	CategoryID int64     `json:"categoryId"`
	URL        string    `json:"url"`
	CreatedBy  string    `json:"createdBy"`
	UpdatedBy  string    `json:"updatedBy"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newProductResponse(p *entity.Product) productResponse {
	return productResponse{
		ID:         p.ID,
		Name:       p.Name,
		Qty:        p.Qty,
		CategoryID: p.CategoryID,
		URL:        p.URL,
		CreatedBy:  p.CreatedBy,
		UpdatedBy:  p.UpdatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// actingUsername resolves the hydrated actor; write operations stamp the
// acting user's username and cannot proceed without it.
func actingUsername(c *gin.Context) (string, bool) {
	username, ok := middleware.ActorFrom(c).Username()
	if !ok {
		response.Message(c, http.StatusUnauthorized, "User no longer exists")
		return "", false
	}
	return username, true
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Message(c, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return id, true
}

// List GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.Svc.ListProducts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, newProductResponse(p))
	}
	response.JSON(c, http.StatusOK, out)
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Message(c, http.StatusNotFound, "Product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, newProductResponse(p))
}

// Create POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	username, ok := actingUsername(c)
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrors(c, validation.Messages(err))
		return
	}

	p, err := h.Svc.CreateProduct(c.Request.Context(), username, application.ProductInput{
		Name:       req.Name,
		Qty:        req.Qty,
		CategoryID: req.CategoryID,
		URL:        req.URL,
	})
	if err != nil {
		if errors.Is(err, application.ErrCategoryMissing) {
			response.Message(c, http.StatusBadRequest, "Category does not exist")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, newProductResponse(p))
}

// Update PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	username, ok := actingUsername(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErrors(c, validation.Messages(err))
		return
	}

	_, err := h.Svc.UpdateProduct(c.Request.Context(), username, id, application.ProductInput{
		Name:       req.Name,
		Qty:        req.Qty,
		CategoryID: req.CategoryID,
		URL:        req.URL,
	})
	switch {
	case errors.Is(err, application.ErrProductNotFound):
		response.Message(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, application.ErrCategoryMissing):
		response.Message(c, http.StatusBadRequest, "Category does not exist")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Message(c, http.StatusOK, "Product updated")
	}
}

// Delete DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Message(c, http.StatusNotFound, "Product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Product deleted")
}

// Search GET /search/products?q=...
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.Query("size"))
	results, err := h.Svc.SearchProducts(c.Request.Context(), q, size)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results)
}

// UploadImage POST /products/:id/image (multipart field "image")
func (h *ProductHandler) UploadImage(c *gin.Context) {
	username, ok := actingUsername(c)
	if !ok {
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Message(c, http.StatusBadRequest, "Image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	p, err := h.Svc.UploadProductImage(c.Request.Context(), username, id, file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, application.ErrProductNotFound) {
			response.Message(c, http.StatusNotFound, "Product not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, newProductResponse(p))
}
