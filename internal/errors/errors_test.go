package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError tests construction, wrapping and classification
func TestAppError(t *testing.T) {
	cause := errors.New("column lists differ in length")
	err := NewConfigError("category IA has an invalid column configuration", cause)

	assert.Contains(t, err.Error(), "CONFIG")
	assert.Contains(t, err.Error(), cause.Error())
	assert.Equal(t, cause, errors.Unwrap(err))

	t.Run("IsType sees through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("analyze: %w", err)
		assert.True(t, IsType(wrapped, ErrTypeConfig))
		assert.False(t, IsType(wrapped, ErrTypeParsing))
		assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
	})

	t.Run("WithContext accumulates", func(t *testing.T) {
		err := NewParsingError("bad sheet", nil).
			WithContext("sheet", "Survey").
			WithContext("row", 7)
		assert.Equal(t, "Survey", err.Context["sheet"])
		assert.Equal(t, 7, err.Context["row"])
	})
}

// TestConstructors tests the per-type constructors
func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		typ  ErrorType
	}{
		{"config", NewConfigError("m", nil), ErrTypeConfig},
		{"parsing", NewParsingError("m", nil), ErrTypeParsing},
		{"validation", NewValidationError("m"), ErrTypeValidation},
		{"storage", NewStorageError("m", nil), ErrTypeStorage},
		{"not found", NewNotFoundError("sheet"), ErrTypeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
		})
	}
}

// TestFromAppError tests mapping the error taxonomy onto HTTP statuses
func TestFromAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"config maps to 422", NewConfigError("bad layout", nil), http.StatusUnprocessableEntity},
		{"validation maps to 422", NewValidationError("bad input"), http.StatusUnprocessableEntity},
		{"not found maps to 404", NewNotFoundError("category"), http.StatusNotFound},
		{"storage maps to 500", NewStorageError("disk", nil), http.StatusInternalServerError},
		{"plain error maps to 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
		})
	}
}

// TestValidationErrors tests field-level error payloads
func TestValidationErrors(t *testing.T) {
	apiErr := ValidationErrors([]FieldError{
		{Field: "records", Message: "required"},
	})
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.NotNil(t, apiErr.Details)
}
