package http

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglog/internal/auth"
	domainerrors "github.com/mrlokans/readinglog/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", domainerrors.ValidationWithDetails("validation failed", map[string]string{"rating": "must be at most 5"}), http.StatusBadRequest, "VALIDATION"},
		{"duplicate", fmt.Errorf("register: %w", domainerrors.AlreadyExists("username taken")), http.StatusConflict, "ALREADY_EXISTS"},
		{"credentials", domainerrors.InvalidCredentials("invalid username or password"), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"not found", domainerrors.NotFound("book not found"), http.StatusNotFound, "NOT_FOUND"},
		{"io failure", domainerrors.IOFailure("write books", fs.ErrPermission), http.StatusInternalServerError, "internal server error"},
		{"unknown", fs.ErrClosed, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondDomainError(c, tt.err, "test")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.NotContains(t, w.Body.String(), "permission denied", "causes must not leak")
		})
	}
}

func TestRespondDomainError_Details(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondDomainError(c, domainerrors.ValidationWithDetails("validation failed", map[string]string{"title": "is required"}), "test")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, map[string]any{"title": "is required"}, resp.Details)
}

func TestParseOptionalIntQuery(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		v, ok := parseOptionalIntQuery(c, "min_rating")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?min_rating=3", nil)

		v, ok := parseOptionalIntQuery(c, "min_rating")
		assert.True(t, ok)
		require.NotNil(t, v)
		assert.Equal(t, 3, *v)
	})

	t.Run("invalid", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/?min_rating=high", nil)

		_, ok := parseOptionalIntQuery(c, "min_rating")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid min_rating")
	})
}

func TestCurrentUser(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := currentUser(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c.Set(auth.ContextKeyUsername, "alice")
	username, ok := currentUser(c)
	assert.True(t, ok)
	assert.Equal(t, "alice", username)
}
