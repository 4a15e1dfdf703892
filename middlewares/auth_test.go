package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xDracarys/ABAYA-ecom-v1/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": c.GetString("userID")})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_SECRET_FILE", "")

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets the principal", func(t *testing.T) {
		token, err := utils.GenerateToken("user-42", "test-secret")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newAuthRouter().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "user-42")
	})
}

func TestAdminMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_SECRET_FILE", "")

	token, err := utils.GenerateToken("user-42", "test-secret")
	require.NoError(t, err)

	adminRequest := func() *http.Request {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	t.Run("admin role passes", func(t *testing.T) {
		SetRoleLookup(func(_ context.Context, userID string) (string, error) {
			assert.Equal(t, "user-42", userID)
			return RoleAdmin, nil
		})
		defer SetRoleLookup(lookupRoleSQL)

		w := httptest.NewRecorder()
		newAuthRouter(AdminMiddleware()).ServeHTTP(w, adminRequest())
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("customer role is forbidden", func(t *testing.T) {
		SetRoleLookup(func(_ context.Context, _ string) (string, error) {
			return RoleCustomer, nil
		})
		defer SetRoleLookup(lookupRoleSQL)

		w := httptest.NewRecorder()
		newAuthRouter(AdminMiddleware()).ServeHTTP(w, adminRequest())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("lookup failure is a server error, not a grant", func(t *testing.T) {
		SetRoleLookup(func(_ context.Context, _ string) (string, error) {
			return "", errors.New("user_roles unavailable")
		})
		defer SetRoleLookup(lookupRoleSQL)

		w := httptest.NewRecorder()
		newAuthRouter(AdminMiddleware()).ServeHTTP(w, adminRequest())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
