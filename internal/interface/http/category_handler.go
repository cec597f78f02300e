package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/adisatriyo/inventory-api/internal/application"
	"github.com/adisatriyo/inventory-api/internal/domain/entity"
	"github.com/adisatriyo/inventory-api/pkg/response"
	"github.com/adisatriyo/inventory-api/pkg/validation"
)

type CategoryHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCategoryHandler(svc *application.CatalogService, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{Svc: svc, Logger: logger}
}

// categoryPayload flattens the free-form attributes next to the identifier
// and timestamps, the way the rows are stored.
func categoryPayload(c *entity.Category) map[string]any {
	out := make(map[string]any, len(c.Attributes)+3)
	for k, v := range c.Attributes {
		out[k] = v
	}
	out["id"] = c.ID
	out["createdAt"] = c.CreatedAt
	out["updatedAt"] = c.UpdatedAt
	return out
}

// List GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.Svc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	out := make([]map[string]any, 0, len(categories))
	for _, cat := range categories {
		out = append(out, categoryPayload(cat))
	}
	response.JSON(c, http.StatusOK, out)
}

// Create POST /categories
// Categories have no schema beyond the identifier; the body's fields are
// stored as supplied.
func (h *CategoryHandler) Create(c *gin.Context) {
	var attrs map[string]any
	if err := c.ShouldBindJSON(&attrs); err != nil {
		response.ValidationErrors(c, validation.Messages(err))
		return
	}

	cat, err := h.Svc.CreateCategory(c.Request.Context(), attrs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, categoryPayload(cat))
}

// Delete DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Message(c, http.StatusNotFound, "Category not found")
		return
	}

	switch err := h.Svc.DeleteCategory(c.Request.Context(), id); {
	case errors.Is(err, application.ErrCategoryInUse):
		response.Message(c, http.StatusBadRequest, "Cannot delete category with associated products")
	case errors.Is(err, application.ErrCategoryNotFound):
		response.Message(c, http.StatusNotFound, "Category not found")
	case err != nil:
		response.InternalError(c, err)
	default:
		response.Message(c, http.StatusOK, "Category deleted")
	}
}
