package utils

import (
	"strconv"

	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/gin-gonic/gin"
)

// MaxPageSize caps every listing endpoint. Requests above it are reduced, not
// rejected, and responses echo the capped value.
const MaxPageSize = 100

// ParsePagination reads page/limit from the query string. Non-numeric or
// non-positive values fall back to the defaults; limit is clamped to
// MaxPageSize.
func ParsePagination(c *gin.Context, defaultSize int) models.Pagination {
	page := parsePositiveInt(c.Query("page"), 1)
	size := parsePositiveInt(c.Query("limit"), defaultSize)
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return models.Pagination{
		Page:     page,
		PageSize: size,
	}
}

// parsePositiveInt returns def when s is absent, malformed or < 1. A parse
// failure must not silently become a value.
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ParseOptionalFloat returns nil for absent or malformed input, never zero.
func ParseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
