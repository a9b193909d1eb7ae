package review

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/srs"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	txRunner     store.TxRunner
	flashcards   store.FlashcardStore
	srsService   srs.Service
	dueListLimit int
	now          func() time.Time
	logger       *slog.Logger
}

// NewService creates a new review Service. A dueListLimit of zero or less
// means DefaultDueListLimit.
func NewService(
	txRunner store.TxRunner,
	flashcards store.FlashcardStore,
	srsService srs.Service,
	dueListLimit int,
	logger *slog.Logger,
) (Service, error) {
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if flashcards == nil {
		return nil, domain.NewValidationError("flashcards", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if dueListLimit <= 0 {
		dueListLimit = DefaultDueListLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		txRunner:     txRunner,
		flashcards:   flashcards,
		srsService:   srsService,
		dueListLimit: dueListLimit,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.With(slog.String("component", "review_service")),
	}, nil
}

// SubmitReview implements Service.SubmitReview
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	owner uuid.UUID,
	id uuid.UUID,
	quality int,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", owner.String()),
		slog.String("flashcard_id", id.String()),
		slog.Int("quality", quality))

	var updated *domain.Flashcard
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		flashcards := s.flashcards.WithTx(tx)

		card, err := flashcards.GetByID(ctx, id)
		if err != nil {
			return service.MapStoreError("submit_review", err)
		}
		if card.UserID != owner {
			log.Warn("user does not own flashcard",
				slog.String("user_id", owner.String()),
				slog.String("flashcard_id", id.String()))
			return service.ErrNotOwned
		}

		now := s.now()
		next, err := s.srsService.CalculateNextReview(card.Schedule, quality, now)
		if err != nil {
			return err
		}

		updated, err = flashcards.UpdateSchedule(ctx, id, next, now)
		if err != nil {
			return service.MapStoreError("submit_review", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			log.Debug("review rejected", slog.String("error", err.Error()))
			return nil, err
		case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrForbidden):
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		if !errors.Is(err, service.ErrDatabase) {
			err = service.NewServiceError("submit_review", "transaction failed", errors.Join(service.ErrDatabase, err))
		}
		return nil, err
	}

	log.Info("review recorded",
		slog.String("flashcard_id", id.String()),
		slog.Int("quality", quality),
		slog.Int("interval", updated.Interval),
		slog.Time("due_date", updated.DueDate))
	return updated, nil
}

// ListDue implements Service.ListDue
func (s *reviewServiceImpl) ListDue(
	ctx context.Context,
	owner uuid.UUID,
	ref *time.Time,
	limit int,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative", domain.ErrValidation)
	}
	if limit == 0 || limit > s.dueListLimit {
		limit = s.dueListLimit
	}

	before := s.now()
	if ref != nil {
		before = *ref
	}

	cards, err := s.flashcards.ListDue(ctx, owner, before, limit)
	if err != nil {
		log.Error("failed to list due flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", owner.String()))
		return nil, service.MapStoreError("list_due", err)
	}

	log.Debug("due flashcards listed",
		slog.String("user_id", owner.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}
