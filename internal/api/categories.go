package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/model"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	Aggregator *inventory.CategoryAggregator
	Writer     *inventory.CategoryWriter
	Log        *zap.SugaredLogger
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/categories?sort=name|createdAt&order=asc|desc.
func (h *CategoriesHandler) List(c *gin.Context) {
	key, err := model.ParseSortKey(c.Query("sort"))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	order, err := model.ParseSortOrder(c.Query("order"))
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	categories, err := h.Aggregator.ListCategories(c.Request.Context(), tenant(c), key, order)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.Writer.CreateCategory(c.Request.Context(), tenant(c), req.Name)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}

	h.Log.Infow("category created", "user", GetClaims(c).Username, "category", category.Name)
	c.JSON(http.StatusCreated, category)
}
