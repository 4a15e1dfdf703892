package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, rawQuery string, defaultSize int) (page, size int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	p := ParsePagination(c, defaultSize)
	return p.Page, p.PageSize
}

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, size := paginationFor(t, "", 10)
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, size)
	})

	t.Run("explicit values", func(t *testing.T) {
		page, size := paginationFor(t, "page=4&limit=25", 10)
		assert.Equal(t, 4, page)
		assert.Equal(t, 25, size)
	})

	t.Run("limit capped", func(t *testing.T) {
		_, size := paginationFor(t, "limit=100000", 10)
		assert.Equal(t, MaxPageSize, size)
	})

	t.Run("garbage falls back", func(t *testing.T) {
		page, size := paginationFor(t, "page=banana&limit=-3", 20)
		assert.Equal(t, 1, page)
		assert.Equal(t, 20, size)
	})

	t.Run("zero is not a valid page", func(t *testing.T) {
		page, _ := paginationFor(t, "page=0", 10)
		assert.Equal(t, 1, page)
	})
}

func TestParseOptionalFloat(t *testing.T) {
	assert.Nil(t, ParseOptionalFloat(""))
	assert.Nil(t, ParseOptionalFloat("abc"))

	v := ParseOptionalFloat("12.5")
	if assert.NotNil(t, v) {
		assert.Equal(t, 12.5, *v)
	}

	zero := ParseOptionalFloat("0")
	if assert.NotNil(t, zero) {
		assert.Equal(t, 0.0, *zero)
	}
}
