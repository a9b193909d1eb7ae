package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// FlashcardFilter selects flashcards for List.
type FlashcardFilter struct {
	UserID uuid.UUID
	// Source restricts results to one provenance. Empty means all.
	Source domain.GenerationType
	Limit  int
	Offset int
}

// FlashcardStore defines the interface for flashcard data persistence.
type FlashcardStore interface {
	// CreateMany inserts all cards in a single statement and returns the rows
	// as stored. Either every card is inserted or none is.
	//
	// Usage example:
	//   err := txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
	//       created, err = flashcards.WithTx(tx).CreateMany(ctx, cards)
	//       return err
	//   })
	CreateMany(ctx context.Context, cards []*domain.Flashcard) ([]*domain.Flashcard, error)

	// GetByID retrieves a flashcard by its unique ID.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error)

	// List returns one page of the user's flashcards, newest first, and the
	// total number of flashcards matching the filter.
	List(ctx context.Context, filter FlashcardFilter) ([]*domain.Flashcard, int, error)

	// ListDue returns the user's flashcards with a due date at or before
	// before, earliest first, at most limit of them.
	ListDue(ctx context.Context, userID uuid.UUID, before time.Time, limit int) ([]*domain.Flashcard, error)

	// UpdateContent replaces front and back. Scheduling state is untouched.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, front, back string, updatedAt time.Time) (*domain.Flashcard, error)

	// UpdateSchedule replaces the scheduling state. Content is untouched.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	UpdateSchedule(ctx context.Context, id uuid.UUID, schedule domain.Schedule, updatedAt time.Time) (*domain.Flashcard, error)

	// Delete removes a flashcard from the store by its ID.
	// Returns ErrFlashcardNotFound if the flashcard does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a FlashcardStore that runs on tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
