package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNewFlashcard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

	t.Run("manual item gets default schedule", func(t *testing.T) {
		t.Parallel()
		item, err := NewManualItem("What is Go?", "A programming language")
		require.NoError(t, err)

		card, err := NewFlashcard(userID, item, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, userID, card.UserID)
		assert.Equal(t, GenerationTypeManual, card.GenerationType)
		assert.Nil(t, card.GenerationID)
		assert.Equal(t, 0, card.Interval)
		assert.Equal(t, 0, card.Repetition)
		assert.Equal(t, 2.5, card.EaseFactor)
		assert.True(t, card.DueDate.Equal(now))
		assert.True(t, card.IsDue(now))
		assert.Equal(t, now, card.CreatedAt)
		assert.Equal(t, now, card.UpdatedAt)
	})

	t.Run("ai item keeps its generation", func(t *testing.T) {
		t.Parallel()
		item, err := NewAIItem("front", "back", 42)
		require.NoError(t, err)

		card, err := NewFlashcard(userID, item, now)
		require.NoError(t, err)

		assert.Equal(t, GenerationTypeAI, card.GenerationType)
		require.NotNil(t, card.GenerationID)
		assert.Equal(t, int64(42), *card.GenerationID)
	})

	t.Run("content is copied verbatim", func(t *testing.T) {
		t.Parallel()
		item, err := NewManualItem("  padded front ", "back\n")
		require.NoError(t, err)

		card, err := NewFlashcard(userID, item, now)
		require.NoError(t, err)
		assert.Equal(t, "  padded front ", card.Front)
		assert.Equal(t, "back\n", card.Back)
	})

	t.Run("empty owner is rejected", func(t *testing.T) {
		t.Parallel()
		item, err := NewManualItem("front", "back")
		require.NoError(t, err)

		_, err = NewFlashcard(uuid.Nil, item, now)
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestValidateContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		front   string
		back    string
		wantErr error
	}{
		{name: "valid", front: "front", back: "back"},
		{name: "front at limit", front: strings.Repeat("a", MaxFrontLength), back: "back"},
		{name: "back at limit", front: "front", back: strings.Repeat("b", MaxBackLength)},
		{name: "multibyte counted as characters", front: strings.Repeat("é", MaxFrontLength), back: "back"},
		{name: "empty front", front: "", back: "back", wantErr: ErrEmptyContent},
		{name: "blank back", front: "front", back: "   ", wantErr: ErrEmptyContent},
		{name: "front too long", front: strings.Repeat("a", MaxFrontLength+1), back: "back", wantErr: ErrContentTooLong},
		{name: "back too long", front: "front", back: strings.Repeat("b", MaxBackLength+1), wantErr: ErrContentTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateContent(tc.front, tc.back)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestParseItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		generationType string
		generationID   *int64
		wantType       GenerationType
		wantErr        error
	}{
		{name: "manual without id", generationType: "manual", wantType: GenerationTypeManual},
		{name: "ai with id", generationType: "ai", generationID: int64Ptr(7), wantType: GenerationTypeAI},
		{name: "manual with id", generationType: "manual", generationID: int64Ptr(7), wantErr: ErrInvalidProvenance},
		{name: "ai without id", generationType: "ai", wantErr: ErrInvalidProvenance},
		{name: "ai with zero id", generationType: "ai", generationID: int64Ptr(0), wantErr: ErrInvalidProvenance},
		{name: "ai with negative id", generationType: "ai", generationID: int64Ptr(-3), wantErr: ErrInvalidProvenance},
		{name: "unknown type", generationType: "imported", wantErr: ErrInvalidGenerationType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item, err := ParseItem("front", "back", tc.generationType, tc.generationID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, ErrValidation)
				assert.True(t, item.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, item.Type())

			id, ok := item.GenerationID()
			if tc.generationID != nil {
				assert.True(t, ok)
				assert.Equal(t, *tc.generationID, id)
			} else {
				assert.False(t, ok)
			}
		})
	}
}

func TestFlashcardValidateProvenance(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	base := Flashcard{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Front:          "front",
		Back:           "back",
		GenerationType: GenerationTypeManual,
		Schedule:       NewSchedule(now),
	}

	manualWithID := base
	manualWithID.GenerationID = int64Ptr(1)
	assert.ErrorIs(t, manualWithID.Validate(), ErrInvalidProvenance)

	aiWithoutID := base
	aiWithoutID.GenerationType = GenerationTypeAI
	assert.ErrorIs(t, aiWithoutID.Validate(), ErrInvalidProvenance)

	lowEase := base
	lowEase.EaseFactor = 1.2
	assert.ErrorIs(t, lowEase.Validate(), ErrValidation)

	assert.NoError(t, base.Validate())
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewValidationError("front", "cannot be empty", ErrEmptyContent)
	assert.Equal(t, "invalid front: cannot be empty: content cannot be empty", err.Error())

	plain := NewValidationError("interval", "must be greater than or equal to 0", ErrValidation)
	assert.Equal(t, "invalid interval: must be greater than or equal to 0", plain.Error())
	assert.True(t, errors.Is(plain, ErrValidation))

	var ve *ValidationError
	assert.True(t, errors.As(error(err), &ve))
	assert.Equal(t, "front", ve.Field)
}
