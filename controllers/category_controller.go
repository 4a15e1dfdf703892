package controllers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

// ListCategories returns categories ordered by name, each with its product
// count, paginated.
func ListCategories(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("category", "list", ok)
	}()

	pagination := utils.ParsePagination(c, 10)
	offset := (pagination.Page - 1) * pagination.PageSize

	rows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT c.id, c.name, c.description, c.slug, c.image_url, c.created_at, c.updated_at,
		       count(p.id) AS product_count,
		       count(*) OVER () AS total_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name, c.id
		LIMIT $1 OFFSET $2
	`, pagination.PageSize, offset)
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	total := 0
	for rows.Next() {
		var (
			cat   models.Category
			count int
		)
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Slug, &cat.ImageURL,
			&cat.CreatedAt, &cat.UpdatedAt, &count, &total); err != nil {
			log.Printf("Error scanning category: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		cat.ProductCount = &count
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Categories: categories,
		TotalCount: total,
		Page:       pagination.Page,
		Limit:      pagination.PageSize,
	})
}

func GetCategoryBySlug(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("category", "get", ok)
	}()

	slug := c.Param("slug")

	var (
		cat   models.Category
		count int
	)
	err := database.DB.QueryRowContext(c.Request.Context(), `
		SELECT c.id, c.name, c.description, c.slug, c.image_url, c.created_at, c.updated_at,
		       count(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.slug = $1
		GROUP BY c.id
	`, slug).Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Slug, &cat.ImageURL,
		&cat.CreatedAt, &cat.UpdatedAt, &count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		log.Printf("Error fetching category %s: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}
	cat.ProductCount = &count

	c.JSON(http.StatusOK, cat)
}

func CreateCategory(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("category", "create", ok)
	}()

	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	err := database.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO categories (name, description, slug, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, category.Name, category.Description, category.Slug, category.ImageURL,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
			return
		}
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	sendCatalogEvent(c.Request.Context(), models.EventCategoryCreated, func(e *models.CatalogEvent) {
		e.CategoryID = category.ID
	})

	c.JSON(http.StatusCreated, category)
}

// isUniqueViolation reports a Postgres unique constraint failure (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
