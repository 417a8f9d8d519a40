package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/service"
)

// CatalogHandler serves the reference lists used by recipe forms and filters.
type CatalogHandler struct {
	catalog service.ICatalogService
}

func NewCatalogHandler(catalog service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/categories", h.ListCategories)
	router.GET("/areas", h.ListAreas)
	router.GET("/ingredients", h.ListIngredients)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) ListAreas(c *gin.Context) {
	areas, err := h.catalog.ListAreas(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if areas == nil {
		areas = []models.Area{}
	}
	c.JSON(http.StatusOK, areas)
}

// ListIngredients accepts an optional "name" filter.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, ingredients)
}
