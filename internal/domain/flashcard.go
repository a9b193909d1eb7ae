package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Content length limits, counted in characters.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// GenerationType records how a flashcard was created.
type GenerationType string

// Possible generation type values
const (
	GenerationTypeManual GenerationType = "manual"
	GenerationTypeAI     GenerationType = "ai"
)

// ParseGenerationType converts a raw string into a GenerationType.
func ParseGenerationType(s string) (GenerationType, error) {
	switch GenerationType(s) {
	case GenerationTypeManual, GenerationTypeAI:
		return GenerationType(s), nil
	default:
		return "", NewValidationError("generation_type", fmt.Sprintf("unknown value %q", s), ErrInvalidGenerationType)
	}
}

// Flashcard is a spaced-repetition learning unit owned by a single user.
//
// Content (Front, Back) and scheduling state (Schedule) are mutated by
// disjoint operations: an edit never changes the schedule and a review never
// changes the content.
type Flashcard struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	Front          string         `json:"front"`
	Back           string         `json:"back"`
	GenerationType GenerationType `json:"generation_type"`
	GenerationID   *int64         `json:"generation_id"`
	Schedule
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard builds an insertable flashcard for the given owner from an item.
// The card starts with default scheduling state and is due at now.
func NewFlashcard(userID uuid.UUID, item FlashcardItem, now time.Time) (*Flashcard, error) {
	card := &Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		Front:          item.front,
		Back:           item.back,
		GenerationType: item.Type(),
		Schedule:       NewSchedule(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if id, ok := item.GenerationID(); ok {
		card.GenerationID = &id
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if f.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if err := ValidateContent(f.Front, f.Back); err != nil {
		return err
	}
	if err := validateProvenance(f.GenerationType, f.GenerationID); err != nil {
		return err
	}
	return f.Schedule.Validate()
}

// ValidateContent checks the front and back of a card against the length limits.
func ValidateContent(front, back string) error {
	if err := validateText("front", front, MaxFrontLength); err != nil {
		return err
	}
	return validateText("back", back, MaxBackLength)
}

func validateText(field, value string, limit int) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(field, "cannot be empty", ErrEmptyContent)
	}
	if utf8.RuneCountInString(value) > limit {
		return NewValidationError(field, fmt.Sprintf("must be at most %d characters", limit), ErrContentTooLong)
	}
	return nil
}

func validateProvenance(t GenerationType, generationID *int64) error {
	switch t {
	case GenerationTypeManual:
		if generationID != nil {
			return NewValidationError("generation_id", "must be empty for manual flashcards", ErrInvalidProvenance)
		}
	case GenerationTypeAI:
		if generationID == nil || *generationID <= 0 {
			return NewValidationError("generation_id", "must be a positive integer for ai flashcards", ErrInvalidProvenance)
		}
	default:
		return NewValidationError("generation_type", fmt.Sprintf("unknown value %q", t), ErrInvalidGenerationType)
	}
	return nil
}

// FlashcardItem is a request to create one flashcard. It is either manual or
// AI-sourced; an AI-sourced item always carries the id of the generation that
// proposed it and a manual item never does. The zero value is not a valid item.
type FlashcardItem struct {
	front        string
	back         string
	generationID int64 // zero for manual items
}

// NewManualItem creates a manual flashcard item.
func NewManualItem(front, back string) (FlashcardItem, error) {
	if err := ValidateContent(front, back); err != nil {
		return FlashcardItem{}, err
	}
	return FlashcardItem{front: front, back: back}, nil
}

// NewAIItem creates a flashcard item accepted from the given generation.
func NewAIItem(front, back string, generationID int64) (FlashcardItem, error) {
	if generationID <= 0 {
		return FlashcardItem{}, NewValidationError(
			"generation_id", "must be a positive integer for ai flashcards", ErrInvalidProvenance)
	}
	if err := ValidateContent(front, back); err != nil {
		return FlashcardItem{}, err
	}
	return FlashcardItem{front: front, back: back, generationID: generationID}, nil
}

// ParseItem builds a FlashcardItem from loosely typed input, enforcing that
// manual items have no generation ID and AI items have one.
func ParseItem(front, back, generationType string, generationID *int64) (FlashcardItem, error) {
	t, err := ParseGenerationType(generationType)
	if err != nil {
		return FlashcardItem{}, err
	}
	if t == GenerationTypeManual {
		if generationID != nil {
			return FlashcardItem{}, NewValidationError(
				"generation_id", "must be empty for manual flashcards", ErrInvalidProvenance)
		}
		return NewManualItem(front, back)
	}
	if generationID == nil {
		return FlashcardItem{}, NewValidationError(
			"generation_id", "is required for ai flashcards", ErrInvalidProvenance)
	}
	return NewAIItem(front, back, *generationID)
}

// Front returns the question side of the item.
func (i FlashcardItem) Front() string { return i.front }

// Back returns the answer side of the item.
func (i FlashcardItem) Back() string { return i.back }

// Type returns the generation type of the item.
func (i FlashcardItem) Type() GenerationType {
	if i.generationID > 0 {
		return GenerationTypeAI
	}
	return GenerationTypeManual
}

// GenerationID returns the originating generation and true for AI items.
func (i FlashcardItem) GenerationID() (int64, bool) {
	return i.generationID, i.generationID > 0
}

// IsZero reports whether the item was built without a constructor.
func (i FlashcardItem) IsZero() bool {
	return i.front == "" && i.back == ""
}
