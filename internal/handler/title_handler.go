package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/repository"
	"github.com/yamdb/api/internal/service"
)

type TitleHandler struct {
	titleService *service.TitleService
}

func NewTitleHandler(titleService *service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

// GET /titles?genre=&category=&year=&name=
func (h *TitleHandler) List(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	filter := repository.TitleFilter{
		GenreSlug:    c.Query("genre"),
		CategorySlug: c.Query("category"),
		Name:         c.Query("name"),
	}
	if v := c.Query("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, "List titles", validation.Errors{"year": errors.New("must be an integer")})
			return
		}
		filter.Year = &year
	}

	titles, total, err := h.titleService.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, "List titles", err)
		return
	}
	respondList(c, total, toTitleResponses(titles))
}

// POST /titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req service.TitleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Create title", err)
		return
	}
	c.JSON(http.StatusCreated, toTitleResponse(title))
}

// GET /titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Get title", err)
		return
	}
	c.JSON(http.StatusOK, toTitleResponse(title))
}

// PATCH /titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req service.TitleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Update title", err)
		return
	}
	c.JSON(http.StatusOK, toTitleResponse(title))
}

// DELETE /titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "Delete title", err)
		return
	}
	c.Status(http.StatusNoContent)
}
