package errors

import (
	"fmt"
	"io/fs"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))

	wrapped := fmt.Errorf("delete book: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	err := IOFailure("write books", fs.ErrPermission)

	assert.True(t, Is(err, ErrIOFailure))
	assert.True(t, Is(err, fs.ErrPermission))
	assert.Equal(t, "write books: permission denied", err.Error())
}

func TestValidationWithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"rating": "must be at most 5"})

	assert.True(t, Is(err, ErrValidation))
	assert.Equal(t, map[string]string{"rating": "must be at most 5"}, err.Details)
	assert.Nil(t, ErrValidation.Details)
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeInvalidCredentials, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeIOFailure, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeAlreadyExists, CodeOf(fmt.Errorf("register: %w", AlreadyExists("taken"))))
	assert.Equal(t, Code(""), CodeOf(fs.ErrNotExist))
	assert.Equal(t, Code(""), CodeOf(nil))
}
