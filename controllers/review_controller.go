package controllers

import (
	"log"
	"net/http"

	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/middlewares"
	"github.com/0xDracarys/ABAYA-ecom-v1/models"
	"github.com/gin-gonic/gin"
)

// ListReviews returns a product's reviews, newest first, with reviewer
// profile data.
func ListReviews(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("review", "list", ok)
	}()

	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	rows, err := database.DB.QueryContext(c.Request.Context(), `
		SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
		       coalesce(pr.name, ''), coalesce(pr.avatar_url, '')
		FROM product_reviews r
		LEFT JOIN profiles pr ON pr.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC
	`, productID)
	if err != nil {
		log.Printf("Error fetching reviews: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment,
			&r.CreatedAt, &r.Author, &r.AvatarURL); err != nil {
			log.Printf("Error scanning review: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error fetching reviews: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// CreateReview records an authenticated user's review, one per product per
// user, then refreshes the product's rating aggregate in a single statement
// so concurrent submissions cannot interleave a stale read into the update.
func CreateReview(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOperation("review", "create", ok)
	}()

	userID := c.GetString("userID")

	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err.Error()})
		return
	}

	var productExists bool
	err := database.DB.QueryRowContext(c.Request.Context(),
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", input.ProductID,
	).Scan(&productExists)
	if err != nil {
		log.Printf("Error checking product %s: %v", input.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	if !productExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var review models.Review
	err = database.DB.QueryRowContext(c.Request.Context(), `
		INSERT INTO product_reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, user_id, rating, comment, created_at
	`, input.ProductID, userID, input.Rating, input.Comment,
	).Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating,
		&review.Comment, &review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
			return
		}
		log.Printf("Error creating review: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	if err := refreshProductRating(c, input.ProductID); err != nil {
		// The review exists; the aggregate catches up on the next write.
		log.Printf("Error refreshing rating for product %s: %v", input.ProductID, err)
	}

	c.JSON(http.StatusCreated, review)
}

// refreshProductRating recomputes the aggregate from the review rows inside
// one UPDATE, so there is no read-modify-write window between concurrent
// review submissions.
func refreshProductRating(c *gin.Context, productID string) error {
	_, err := database.DB.ExecContext(c.Request.Context(), `
		UPDATE products
		SET rating = agg.avg_rating, review_count = agg.review_count
		FROM (
			SELECT coalesce(avg(rating), 0) AS avg_rating, count(*) AS review_count
			FROM product_reviews
			WHERE product_id = $1
		) agg
		WHERE id = $1
	`, productID)
	return err
}
