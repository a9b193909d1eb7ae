// Package review applies review outcomes to flashcards and lists the cards
// that are due. Scheduling itself is delegated to the srs package; this
// package loads and persists scheduling state and enforces ownership.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// DefaultDueListLimit caps due lists when no limit is configured.
const DefaultDueListLimit = 100

// Service provides review operations for flashcards.
type Service interface {
	// SubmitReview records a review of the given quality (0..5) for a card
	// and returns the card with its new scheduling state. Content is never
	// changed.
	//
	// Returns:
	//   - an error wrapping domain.ErrValidation for a quality outside 0..5
	//   - service.ErrNotFound if the card does not exist
	//   - service.ErrNotOwned if the card belongs to another user
	SubmitReview(ctx context.Context, owner uuid.UUID, id uuid.UUID, quality int) (*domain.Flashcard, error)

	// ListDue returns the owner's cards with a due date at or before ref,
	// earliest first. A nil ref means now. A zero limit means the
	// configured maximum.
	ListDue(ctx context.Context, owner uuid.UUID, ref *time.Time, limit int) ([]*domain.Flashcard, error)
}
