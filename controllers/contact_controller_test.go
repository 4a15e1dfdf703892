package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func postContact(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/contact", SubmitContact)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitContactValidation(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		w := postContact(t, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Validation failed")
	})

	t.Run("bad email", func(t *testing.T) {
		w := postContact(t, `{
			"name": "Amina",
			"email": "not-an-email",
			"subject": "Sizing question",
			"message": "Does the classic abaya run large or true to size?"
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("message too short", func(t *testing.T) {
		w := postContact(t, `{
			"name": "Amina",
			"email": "amina@example.com",
			"subject": "Hi",
			"message": "short"
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		w := postContact(t, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
