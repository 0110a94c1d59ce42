package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yamdb/api/internal/service"
)

// CatalogHandler serves categories and genres: list, create and delete by slug.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	categories, total, err := h.catalogService.ListCategories(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, "List categories", err)
		return
	}
	respondList(c, total, toCategoryResponses(categories))
}

// POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.SlugInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Create category", err)
		return
	}
	c.JSON(http.StatusCreated, SlugResponse{Name: category.Name, Slug: category.Slug})
}

// DELETE /categories/:slug
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, "Delete category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /genres
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	genres, total, err := h.catalogService.ListGenres(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		respondError(c, "List genres", err)
		return
	}
	respondList(c, total, toGenreResponses(genres))
}

// POST /genres
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req service.SlugInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	genre, err := h.catalogService.CreateGenre(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Create genre", err)
		return
	}
	c.JSON(http.StatusCreated, SlugResponse{Name: genre.Name, Slug: genre.Slug})
}

// DELETE /genres/:slug
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, "Delete genre", err)
		return
	}
	c.Status(http.StatusNoContent)
}
