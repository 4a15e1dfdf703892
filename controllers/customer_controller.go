package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
)

// ListCustomers is the admin customer directory: optional name/email search,
// paginated.
func ListCustomers(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("customer", "list", ok)
	}()

	search := strings.TrimSpace(c.Query("search"))
	pagination := utils.ParsePagination(c, 20)
	offset := (pagination.Page - 1) * pagination.PageSize

	query := `
		SELECT id, coalesce(name, ''), email, coalesce(avatar_url, ''), created_at,
		       count(*) OVER () AS total_count
		FROM profiles`
	var args []any
	if search != "" {
		query += " WHERE name ILIKE $1 OR email ILIKE $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = []any{"%" + search + "%", pagination.PageSize, offset}
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = []any{pagination.PageSize, offset}
	}

	rows, err := database.DB.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		log.Printf("Error fetching customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	defer rows.Close()

	customers := []models.Customer{}
	total := 0
	for rows.Next() {
		var cust models.Customer
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.AvatarURL,
			&cust.CreatedAt, &total); err != nil {
			log.Printf("Error scanning customer: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
			return
		}
		customers = append(customers, cust)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error fetching customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	c.JSON(http.StatusOK, models.CustomerListResponse{
		Customers:  customers,
		TotalCount: total,
		Page:       pagination.Page,
		Limit:      pagination.PageSize,
	})
}
