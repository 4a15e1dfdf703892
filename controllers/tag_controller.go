package controllers

import (
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/gin-gonic/gin"
)

// ListTags returns all tags alphabetically. withProductCount=true attaches
// the number of products associated with each tag.
func ListTags(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("tag", "list", ok)
	}()

	withCount := c.Query("withProductCount") == "true"

	query := "SELECT id, name, created_at FROM tags ORDER BY name"
	if withCount {
		query = `
			SELECT t.id, t.name, t.created_at, count(pt.product_id) AS product_count
			FROM tags t
			LEFT JOIN product_tags pt ON pt.tag_id = t.id
			GROUP BY t.id
			ORDER BY t.name`
	}

	rows, err := database.DB.QueryContext(c.Request.Context(), query)
	if err != nil {
		log.Printf("Error fetching tags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if withCount {
			var count int
			if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &count); err != nil {
				log.Printf("Error scanning tag: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
				return
			}
			t.ProductCount = &count
		} else {
			if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
				log.Printf("Error scanning tag: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
				return
			}
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error fetching tags: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, tags)
}

func CreateTag(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("tag", "create", ok)
	}()

	var tag models.Tag
	if err := c.ShouldBindJSON(&tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	err := database.DB.QueryRowContext(c.Request.Context(),
		"INSERT INTO tags (name) VALUES ($1) RETURNING id, created_at",
		tag.Name,
	).Scan(&tag.ID, &tag.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "A tag with this name already exists"})
			return
		}
		log.Printf("Error creating tag: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	sendCatalogEvent(c.Request.Context(), models.EventTagCreated, func(e *models.CatalogEvent) {
		e.TagID = tag.ID
	})

	c.JSON(http.StatusCreated, tag)
}
