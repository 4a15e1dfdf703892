package middlewares

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/0xDracarys/ABAYA-ecom-v1/config"
	"github.com/0xDracarys/ABAYA-ecom-v1/database"
	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// AuthMiddleware validates the Bearer token and stores the principal's ID in
// the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization format. Expected 'Bearer <token>'",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		cfg := config.LoadConfig()
		userID, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// RoleLookup resolves a principal's role from server-owned state.
type RoleLookup func(ctx context.Context, userID string) (string, error)

var lookupRole RoleLookup = lookupRoleSQL

// SetRoleLookup replaces the role resolver. Tests only.
func SetRoleLookup(fn RoleLookup) {
	lookupRole = fn
}

func lookupRoleSQL(ctx context.Context, userID string) (string, error) {
	var role string
	err := database.DB.QueryRowContext(ctx,
		"SELECT role FROM user_roles WHERE user_id = $1", userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return RoleCustomer, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// AdminMiddleware gates privileged catalog mutations. The role comes from the
// user_roles table, resolved once per request from the authenticated
// principal. Nothing client-supplied can grant admin.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDValue, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			return
		}
		userID := userIDValue.(string)

		role, err := lookupRole(c.Request.Context(), userID)
		if err != nil {
			log.Printf("role lookup failed for %s: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user role",
			})
			return
		}

		if role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin privileges required",
			})
			return
		}

		c.Set("role", role)
		c.Next()
	}
}
