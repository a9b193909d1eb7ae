package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

// GenerationService exposes generation records to their owners.
type GenerationService interface {
	// GetGeneration returns ErrNotFound or ErrNotOwned when the generation is
	// not visible to owner.
	GetGeneration(ctx context.Context, owner uuid.UUID, id int64) (*domain.Generation, error)
}

type generationServiceImpl struct {
	generations store.GenerationStore
	logger      *slog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(generations store.GenerationStore, logger *slog.Logger) (GenerationService, error) {
	if generations == nil {
		return nil, domain.NewValidationError("generations", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generationServiceImpl{
		generations: generations,
		logger:      logger.With(slog.String("component", "generation_service")),
	}, nil
}

// GetGeneration implements GenerationService.GetGeneration
func (s *generationServiceImpl) GetGeneration(
	ctx context.Context,
	owner uuid.UUID,
	id int64,
) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	g, err := s.generations.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve generation",
				slog.String("error", err.Error()),
				slog.Int64("generation_id", id))
		}
		return nil, MapStoreError("get_generation", err)
	}

	if !g.OwnedBy(owner) {
		log.Warn("user does not own generation",
			slog.String("user_id", owner.String()),
			slog.Int64("generation_id", id))
		return nil, ErrNotOwned
	}
	return g, nil
}
