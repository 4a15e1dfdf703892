package controllers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/0xDracarys/ABAYA-ecom-v1/catalog"
	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
)

// parseListingParams maps the raw query string onto the composer's typed
// contract. Malformed optional values become absent, never zero; page and
// limit fall back to defaults with limit capped.
func parseListingParams(c *gin.Context) (catalog.Filter, catalog.SortSpec, catalog.Page) {
	pagination := utils.ParsePagination(c, catalog.DefaultPageSize)

	filter := catalog.Filter{
		CategoryID:   c.Query("categoryId"),
		Search:       strings.TrimSpace(c.Query("search")),
		MinPrice:     utils.ParseOptionalFloat(c.Query("minPrice")),
		MaxPrice:     utils.ParseOptionalFloat(c.Query("maxPrice")),
		FeaturedOnly: c.Query("featured") == "true",
		Tag:          c.Query("tag"),
	}

	sort := catalog.SortSpec{
		Field:     c.DefaultQuery("sortBy", "created_at"),
		Direction: catalog.Descending,
	}
	if c.Query("sortOrder") == "asc" {
		sort.Direction = catalog.Ascending
	}

	page := catalog.Page{Number: pagination.Page, Size: pagination.PageSize}
	return filter, sort, page
}

// ListProducts is the catalog listing endpoint: Parse, Compose, Execute,
// Shape, Respond. Pure read path, no side effects.
func ListProducts(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("product", "list", ok)
	}()

	filter, sort, page := parseListingParams(c)

	query, err := catalog.Compose(filter, sort, page)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": verr.Fields,
			})
			return
		}
		log.Printf("Error composing product query: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	products, total, err := catalogStore.ListProducts(c.Request.Context(), query)
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Products:   products,
		TotalCount: total,
		Page:       page.Number,
		Limit:      page.Size,
	})
}

// GetProduct returns one product with its category, tags and reviews.
func GetProduct(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("product", "get", ok)
	}()

	productID := c.Param("id")

	var (
		detail   models.ProductDetail
		category models.Category
	)
	err := database.DB.QueryRowContext(c.Request.Context(), `
		SELECT p.id, p.name, p.description, p.price, p.sale_price, p.image_url,
		       p.category_id, p.stock, p.featured, p.rating, p.review_count, p.slug,
		       p.created_at, p.updated_at,
		       c.id, c.name, c.description, c.slug, c.image_url, c.created_at, c.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, productID).Scan(
		&detail.ID, &detail.Name, &detail.Description, &detail.Price, &detail.SalePrice, &detail.ImageURL,
		&detail.CategoryID, &detail.Stock, &detail.Featured, &detail.Rating, &detail.ReviewCount, &detail.Slug,
		&detail.CreatedAt, &detail.UpdatedAt,
		&category.ID, &category.Name, &category.Description, &category.Slug, &category.ImageURL,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("Error fetching product %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	detail.Category = &category
	detail.Tags = []models.Tag{}
	detail.Reviews = []models.Review{}

	tagRows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = $1
		ORDER BY t.name
	`, productID)
	if err != nil {
		log.Printf("Error fetching tags for product %s: %v", productID, err)
	} else {
		defer tagRows.Close()
		for tagRows.Next() {
			var t models.Tag
			if err := tagRows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
				log.Printf("Error scanning tag: %v", err)
				continue
			}
			detail.Tags = append(detail.Tags, t)
		}
	}

	reviewRows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
		       coalesce(pr.name, ''), coalesce(pr.avatar_url, '')
		FROM product_reviews r
		LEFT JOIN profiles pr ON pr.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
	`, productID)
	if err != nil {
		log.Printf("Error fetching reviews for product %s: %v", productID, err)
	} else {
		defer reviewRows.Close()
		for reviewRows.Next() {
			var r models.Review
			if err := reviewRows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment,
				&r.CreatedAt, &r.Author, &r.AvatarURL); err != nil {
				log.Printf("Error scanning review: %v", err)
				continue
			}
			detail.Reviews = append(detail.Reviews, r)
		}
	}

	c.JSON(http.StatusOK, detail)
}

// validateProductInput enforces what the schema cannot express: a sale price
// must undercut the regular price.
func validateProductInput(in *models.ProductInput) *catalog.FieldError {
	if in.SalePrice != nil && *in.SalePrice >= in.Price {
		return &catalog.FieldError{Field: "sale_price", Message: "must be less than price"}
	}
	return nil
}

func CreateProduct(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("product", "create", ok)
	}()

	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if ferr := validateProductInput(&input); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": []catalog.FieldError{*ferr},
		})
		return
	}

	var categoryExists bool
	err := database.DB.QueryRowContext(c.Request.Context(),
		"SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", input.CategoryID,
	).Scan(&categoryExists)
	if err != nil || !categoryExists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	tx, err := database.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	defer tx.Rollback()

	var product models.Product
	err = tx.QueryRowContext(c.Request.Context(), `
		INSERT INTO products (name, description, price, sale_price, image_url, category_id, stock, featured, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, name, description, price, sale_price, image_url, category_id,
		          stock, featured, rating, review_count, slug, created_at, updated_at
	`, input.Name, input.Description, input.Price, input.SalePrice, input.ImageURL,
		input.CategoryID, input.Stock, input.Featured, input.Slug,
	).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.SalePrice,
		&product.ImageURL, &product.CategoryID, &product.Stock, &product.Featured,
		&product.Rating, &product.ReviewCount, &product.Slug, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	if err := replaceProductTags(c, tx, product.ID, input.Tags); err != nil {
		log.Printf("Error attaching product tags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	sendCatalogEvent(c.Request.Context(), models.EventProductCreated, func(e *models.CatalogEvent) {
		e.ProductID = product.ID
		e.Product = &product
	})

	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("product", "update", ok)
	}()

	productID := c.Param("id")

	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if ferr := validateProductInput(&input); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": []catalog.FieldError{*ferr},
		})
		return
	}

	tx, err := database.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	defer tx.Rollback()

	var product models.Product
	err = tx.QueryRowContext(c.Request.Context(), `
		UPDATE products
		SET name = $1, description = $2, price = $3, sale_price = $4, image_url = $5,
		    category_id = $6, stock = $7, featured = $8, slug = $9, updated_at = now()
		WHERE id = $10
		RETURNING id, name, description, price, sale_price, image_url, category_id,
		          stock, featured, rating, review_count, slug, created_at, updated_at
	`, input.Name, input.Description, input.Price, input.SalePrice, input.ImageURL,
		input.CategoryID, input.Stock, input.Featured, input.Slug, productID,
	).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.SalePrice,
		&product.ImageURL, &product.CategoryID, &product.Stock, &product.Featured,
		&product.Rating, &product.ReviewCount, &product.Slug, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		log.Printf("Error updating product %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if err := replaceProductTags(c, tx, productID, input.Tags); err != nil {
		log.Printf("Error updating product tags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	sendCatalogEvent(c.Request.Context(), models.EventProductUpdated, func(e *models.CatalogEvent) {
		e.ProductID = product.ID
		e.Product = &product
	})

	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("product", "delete", ok)
	}()

	productID := c.Param("id")

	tx, err := database.DB.BeginTx(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(c.Request.Context(),
		"DELETE FROM product_tags WHERE product_id = $1", productID); err != nil {
		log.Printf("Error deleting product tags for %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	result, err := tx.ExecContext(c.Request.Context(),
		"DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	sendCatalogEvent(c.Request.Context(), models.EventProductDeleted, func(e *models.CatalogEvent) {
		e.ProductID = productID
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// replaceProductTags rewrites the tag association set inside the caller's
// transaction.
func replaceProductTags(c *gin.Context, tx *sql.Tx, productID string, tagIDs []string) error {
	if _, err := tx.ExecContext(c.Request.Context(),
		"DELETE FROM product_tags WHERE product_id = $1", productID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(c.Request.Context(),
			"INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2)",
			productID, tagID); err != nil {
			return err
		}
	}
	return nil
}
