package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

func TestErrNotOwnedIsForbidden(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrNotOwned, ErrForbidden)
	assert.False(t, errors.Is(ErrNotOwned, ErrNotFound))
}

func TestServiceError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewServiceError("create_batch", "store operation failed", cause)

	assert.Equal(t, "create_batch failed: store operation failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get_flashcard failed: boom", NewServiceError("get_flashcard", "boom", nil).Error())
}

func TestGenerationReferenceError(t *testing.T) {
	t.Parallel()

	missing := &GenerationReferenceError{Kind: ErrNotFound, MissingIDs: []int64{3, 9}}
	assert.ErrorIs(t, missing, ErrNotFound)
	assert.Equal(t, "generations not found: [3 9]", missing.Error())

	foreign := &GenerationReferenceError{Kind: ErrForbidden, UnauthorizedIDs: []int64{20}}
	assert.ErrorIs(t, foreign, ErrForbidden)
	assert.Equal(t, "generations not owned by principal: [20]", foreign.Error())
}

func TestMapStoreError(t *testing.T) {
	t.Parallel()

	validation := domain.NewValidationError("front", "cannot be empty", domain.ErrEmptyContent)

	tests := []struct {
		name string
		err  error
		want []error
	}{
		{name: "not found", err: store.ErrFlashcardNotFound, want: []error{ErrNotFound, store.ErrNotFound}},
		{name: "validation passes through", err: validation, want: []error{domain.ErrValidation, domain.ErrEmptyContent}},
		{name: "constraint", err: store.ErrInvalidEntity, want: []error{ErrDatabase, store.ErrInvalidEntity}},
		{name: "anything else", err: errors.New("timeout"), want: []error{ErrDatabase}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MapStoreError("op", tt.err)

			for _, want := range tt.want {
				assert.ErrorIs(t, got, want)
			}
		})
	}

	assert.NoError(t, MapStoreError("op", nil))
}
