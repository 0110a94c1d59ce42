package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yamdb/api/internal/repository"
)

// pathID parses a numeric path parameter. Anything that is not a positive
// integer cannot name a row, so it is answered with 404.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return uint(id), true
}

// pageParams reads ?limit= and ?offset=.
func pageParams(c *gin.Context) (repository.Page, bool) {
	var page repository.Page
	errs := validation.Errors{}

	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			errs["limit"] = errors.New("must be a positive integer")
		}
		page.Limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs["offset"] = errors.New("must be a non-negative integer")
		}
		page.Offset = n
	}

	if err := errs.Filter(); err != nil {
		respondError(c, "Parse pagination", err)
		return page, false
	}
	return page, true
}

// listResponse is the envelope for paginated lists.
type listResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

func respondList(c *gin.Context, count int64, results interface{}) {
	c.JSON(http.StatusOK, listResponse{Count: count, Results: results})
}
