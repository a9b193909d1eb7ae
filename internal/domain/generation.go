package domain

import (
	"time"

	"github.com/google/uuid"
)

// Generation records one AI text-to-proposals invocation and how many of its
// proposals the owner accepted as flashcards.
//
// AcceptedCount is nil until the first batch referencing the generation is
// ingested. AcceptedCount <= GeneratedCount is expected but not enforced.
type Generation struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	GeneratedCount int       `json:"generated_count"`
	AcceptedCount  *int      `json:"accepted_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewGeneration creates an unsaved generation record for the given owner.
func NewGeneration(userID uuid.UUID, generatedCount int, now time.Time) (*Generation, error) {
	g := &Generation{
		UserID:         userID,
		GeneratedCount: generatedCount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks if the Generation has valid data. The ID is assigned by
// the store and is not checked.
func (g *Generation) Validate() error {
	if g.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if g.GeneratedCount < 0 {
		return NewValidationError("generated_count", "must be greater than or equal to 0", ErrValidation)
	}
	if g.AcceptedCount != nil && *g.AcceptedCount < 0 {
		return NewValidationError("accepted_count", "must be greater than or equal to 0", ErrValidation)
	}
	return nil
}

// Accepted returns the accepted count, treating "none accepted yet" as zero.
func (g *Generation) Accepted() int {
	if g.AcceptedCount == nil {
		return 0
	}
	return *g.AcceptedCount
}

// OwnedBy reports whether the generation belongs to the given user.
func (g *Generation) OwnedBy(userID uuid.UUID) bool {
	return g.UserID == userID
}
