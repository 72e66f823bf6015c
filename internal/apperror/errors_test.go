package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        &ValidationError{Code: CodeInvalidRequest, Message: "Invalid request"},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeInvalidRequest,
		},
		{
			name:       "not found",
			err:        NotFound(7, "club.notFound", "Club not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "club.notFound",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("lookup: %w", NotFound(7, "club.notFound", "Club not found")),
			wantStatus: http.StatusNotFound,
			wantCode:   "club.notFound",
		},
		{
			name:       "duplicated",
			err:        Duplicated("name", "Rovers", "club.duplicatedName", "Club name already in use"),
			wantStatus: http.StatusConflict,
			wantCode:   "club.duplicatedName",
		},
		{
			name:       "concurrent",
			err:        &ConcurrentModificationError{ID: 3},
			wantStatus: http.StatusConflict,
			wantCode:   CodeConcurrentModification,
		},
		{
			name:       "unknown",
			err:        errors.New("connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restErr := ToRestError(tt.err)
			assert.Equal(t, tt.wantStatus, restErr.Status)
			assert.Equal(t, tt.wantCode, restErr.Code)
			assert.NotEmpty(t, restErr.Message)
		})
	}
}

func TestToRestError_HidesInfrastructureDetail(t *testing.T) {
	restErr := ToRestError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, restErr.Message, "password")
	assert.Empty(t, restErr.DeveloperInfo)
}

func TestToRestError_FieldErrors(t *testing.T) {
	err := &ValidationError{
		Code:    CodeInvalidRequest,
		Message: "Invalid request",
		FieldErrors: []FieldError{
			{Field: "name", Code: "required", Message: "name is required"},
		},
	}

	restErr := ToRestError(err)
	assert.Len(t, restErr.FieldErrors, 1)
	assert.Equal(t, "name", restErr.FieldErrors[0].Field)
	assert.Equal(t, "Invalid request: name", err.Error())
}

func TestNotFound(t *testing.T) {
	err := NotFound(42, "instance.notFound", "Instance not found")
	assert.Equal(t, int64(42), err.ID)
	assert.Contains(t, err.Error(), "42")
	assert.Contains(t, err.DeveloperInfo, "42")

	var sc StatusCodeError = err
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}
