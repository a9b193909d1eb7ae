package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation sentinel", domain.ErrValidation, http.StatusBadRequest},
		{"field validation", domain.NewValidationError("front", "cannot be empty", domain.ErrEmptyContent), http.StatusBadRequest},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", service.ErrNotFound), http.StatusNotFound},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"reference missing", &service.GenerationReferenceError{Kind: service.ErrNotFound}, http.StatusNotFound},
		{"reference foreign", &service.GenerationReferenceError{Kind: service.ErrForbidden}, http.StatusForbidden},
		{"database", service.NewServiceError("op", "store operation failed", service.ErrDatabase), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"field validation", domain.NewValidationError("back", "cannot be empty", domain.ErrEmptyContent), "Invalid back: cannot be empty"},
		{"bare validation", domain.ErrValidation, "Validation error"},
		{"forbidden", service.ErrNotOwned, "You do not own this resource"},
		{"not found", service.ErrNotFound, "Resource not found"},
		{
			name: "database details hidden",
			err:  errors.Join(service.ErrDatabase, errors.New("pq: password authentication failed for user scry")),
			want: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetValidationTagMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "required field", getValidationTagMessage("required", ""))
	assert.Equal(t, "must be at most 500 characters", getValidationTagMessage("max", "500"))
	assert.Equal(t, "must be one of manual ai", getValidationTagMessage("oneof", "manual ai"))
	assert.Equal(t, "validation failed", getValidationTagMessage("uuid4", ""))
}

func TestJSONFieldPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "flashcards[2].back", jsonFieldPath("CreateBatchRequest.flashcards[2].back"))
	assert.Equal(t, "quality", jsonFieldPath("quality"))
}
