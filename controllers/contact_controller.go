package controllers

import (
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
)

// SubmitContact stores a support form submission. Public, but rate limited at
// the route level.
func SubmitContact(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("contact", "submit", ok)
	}()

	var input models.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	userAgent := c.Request.UserAgent()
	if userAgent == "" {
		userAgent = "unknown"
	}

	var id string
	err := database.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO contact_submissions (name, email, subject, message, phone, ip_address, user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, input.Name, input.Email, input.Subject, input.Message, input.Phone,
		c.ClientIP(), userAgent, models.ContactStatusNew,
	).Scan(&id)
	if err != nil {
		log.Printf("Error submitting contact form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit contact form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Contact form submitted successfully",
		"id":      id,
	})
}

// ListContactSubmissions is the admin inbox: newest first, optional status
// filter, paginated.
func ListContactSubmissions(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("contact", "list", ok)
	}()

	status := c.Query("status")
	if status != "" && !models.ValidContactStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Validation failed",
			"details": []gin.H{
				{"field": "status", "message": "unknown status"},
			},
		})
		return
	}

	pagination := utils.ParsePagination(c, 20)
	offset := (pagination.Page - 1) * pagination.PageSize

	query := `
		SELECT id, name, email, subject, message, coalesce(phone, ''), ip_address, user_agent,
		       status, created_at, count(*) OVER () AS total_count
		FROM contact_submissions`
	var args []any
	if status != "" {
		query += " WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = []any{status, pagination.PageSize, offset}
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
		args = []any{pagination.PageSize, offset}
	}

	rows, err := database.DB.QueryContext(c.Request.Context(), query, args...)
	if err != nil {
		log.Printf("Error fetching contact submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact submissions"})
		return
	}
	defer rows.Close()

	submissions := []models.ContactSubmission{}
	total := 0
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.Phone,
			&s.IPAddress, &s.UserAgent, &s.Status, &s.CreatedAt, &total); err != nil {
			log.Printf("Error scanning contact submission: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact submissions"})
			return
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error fetching contact submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contact submissions"})
		return
	}

	c.JSON(http.StatusOK, models.ContactListResponse{
		Submissions: submissions,
		TotalCount:  total,
		Page:        pagination.Page,
		Limit:       pagination.PageSize,
	})
}

// UpdateContactStatus moves a submission through new/read/resolved.
func UpdateContactStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("contact", "update", ok)
	}()

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}
	if !models.ValidContactStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Validation failed",
			"details": []gin.H{
				{"field": "status", "message": "unknown status"},
			},
		})
		return
	}

	result, err := database.DB.ExecContext(c.Request.Context(),
		"UPDATE contact_submissions SET status = $1 WHERE id = $2",
		input.Status, c.Param("id"))
	if err != nil {
		log.Printf("Error updating contact submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact submission"})
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact submission not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact submission updated"})
}
