package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/0xDracarys/ABAYA-ecom-v1/catalog"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogStore captures the composed query and serves canned rows.
type fakeCatalogStore struct {
	lastQuery *catalog.Query
	products  []models.Product
	total     int
	err       error
}

func (f *fakeCatalogStore) ListProducts(_ context.Context, q catalog.Query) ([]models.Product, int, error) {
	f.lastQuery = &q
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.products, f.total, nil
}

func newListingRouter(store CatalogStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetCatalogStore(store)
	r := gin.New()
	r.GET("/api/products", ListProducts)
	return r
}

func doListing(t *testing.T, r *gin.Engine, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/products?"+rawQuery, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleProducts(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.Product{
			ID:        "p-" + string(rune('a'+i)),
			Name:      "Abaya",
			Price:     float64(50 + i),
			CreatedAt: time.Now(),
		}
	}
	return products
}

func TestListProductsOK(t *testing.T) {
	store := &fakeCatalogStore{products: sampleProducts(3), total: 3}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 3)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
}

func TestListProductsEmptyPageIsAnArray(t *testing.T) {
	store := &fakeCatalogStore{products: nil, total: 0}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "minPrice=50&maxPrice=10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":[]`)
	assert.Contains(t, w.Body.String(), `"totalCount":0`)
}

func TestListProductsPageEcho(t *testing.T) {
	store := &fakeCatalogStore{products: sampleProducts(7), total: 50}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "page=3&limit=7")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 7, resp.Limit)
	assert.Equal(t, 50, resp.TotalCount)

	require.NotNil(t, store.lastQuery)
	assert.Equal(t, 7, store.lastQuery.Limit())
	assert.Equal(t, 14, store.lastQuery.PageOffset())
}

func TestListProductsOversizedLimitIsCapped(t *testing.T) {
	store := &fakeCatalogStore{}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "limit=100000")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp.Limit)
	require.NotNil(t, store.lastQuery)
	assert.Equal(t, 100, store.lastQuery.Limit())
}

func TestListProductsRejectsUnknownSortField(t *testing.T) {
	store := &fakeCatalogStore{}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "sortBy=%27%3B%20DROP%20TABLE%20products")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string               `json:"error"`
		Details []catalog.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "sortBy", resp.Details[0].Field)

	// The backing store must never see a rejected request.
	assert.Nil(t, store.lastQuery)
}

func TestListProductsStoreErrorIsOpaque(t *testing.T) {
	store := &fakeCatalogStore{err: errors.New("connection refused to 10.0.0.5:5432")}
	r := newListingRouter(store)
	defer SetCatalogStore(sqlCatalogStore{})

	w := doListing(t, r, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Failed to fetch products"}`, w.Body.String())
}

func TestListProductsParamParsing(t *testing.T) {
	t.Run("malformed price is absent, not zero", func(t *testing.T) {
		store := &fakeCatalogStore{}
		r := newListingRouter(store)
		defer SetCatalogStore(sqlCatalogStore{})

		w := doListing(t, r, "minPrice=abc&maxPrice=12.5")
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, store.lastQuery)
		sql := store.lastQuery.SQL()
		assert.NotContains(t, sql, "p.price >=")
		assert.Contains(t, sql, "p.price <=")
		assert.Contains(t, store.lastQuery.Args(), 12.5)
	})

	t.Run("featured accepts only the true literal", func(t *testing.T) {
		store := &fakeCatalogStore{}
		r := newListingRouter(store)
		defer SetCatalogStore(sqlCatalogStore{})

		w := doListing(t, r, "featured=1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, store.lastQuery.SQL(), "p.featured = TRUE")

		w = doListing(t, r, "featured=true")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, store.lastQuery.SQL(), "p.featured = TRUE")
	})

	t.Run("whitespace search equals no search", func(t *testing.T) {
		store := &fakeCatalogStore{}
		r := newListingRouter(store)
		defer SetCatalogStore(sqlCatalogStore{})

		w := doListing(t, r, "search=%20%20")
		require.Equal(t, http.StatusOK, w.Code)
		withBlank := store.lastQuery.SQL()

		w = doListing(t, r, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, store.lastQuery.SQL(), withBlank)
	})

	t.Run("malformed page falls back to first page", func(t *testing.T) {
		store := &fakeCatalogStore{}
		r := newListingRouter(store)
		defer SetCatalogStore(sqlCatalogStore{})

		w := doListing(t, r, "page=banana")
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ProductListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 0, store.lastQuery.PageOffset())
	})

	t.Run("tag is passed through verbatim", func(t *testing.T) {
		store := &fakeCatalogStore{}
		r := newListingRouter(store)
		defer SetCatalogStore(sqlCatalogStore{})

		w := doListing(t, r, "tag=Eid%20Collection")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, store.lastQuery.Args(), "Eid Collection")
	})
}

func TestValidateProductInput(t *testing.T) {
	sale := 40.0
	in := &models.ProductInput{Name: "Classic Abaya", Description: "A timeless cut.", Price: 30, SalePrice: &sale}
	ferr := validateProductInput(in)
	require.NotNil(t, ferr)
	assert.Equal(t, "sale_price", ferr.Field)

	in.Price = 60
	assert.Nil(t, validateProductInput(in))
}
