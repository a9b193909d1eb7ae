package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// GenerationStore defines the interface for persistence of AI generation
// records. Records are created by the generation step and read here to check
// ownership and to keep accepted counts current.
type GenerationStore interface {
	// Create inserts a generation and returns it with its assigned ID.
	Create(ctx context.Context, generation *domain.Generation) (*domain.Generation, error)

	// GetByID returns ErrGenerationNotFound if the generation does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Generation, error)

	// GetByIDs fetches every existing generation among ids in one query.
	// IDs with no record are simply absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Generation, error)

	// IncrementAcceptedCount adds n to the accepted count atomically, treating
	// an unset count as zero, and returns the new value.
	// Returns ErrGenerationNotFound if the generation does not exist.
	IncrementAcceptedCount(ctx context.Context, id int64, n int) (int, error)

	// WithTx returns a GenerationStore that runs on tx.
	WithTx(tx *sql.Tx) GenerationStore
}
