package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/domain/srs"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

// Config holds the limits the flashcard service enforces.
type Config struct {
	MaxBatchSize    int
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns the limits used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxBatchSize:    100,
		DefaultPageSize: 50,
		MaxPageSize:     200,
	}
}

// ReconciliationWarning records a generation whose accepted count could not
// be updated after its flashcards were created.
type ReconciliationWarning struct {
	GenerationID int64
	Count        int
	Err          error
}

// BatchResult is the outcome of a successful batch ingestion. Warnings are
// never a reason to treat the batch as failed: the flashcards exist.
type BatchResult struct {
	Flashcards []*domain.Flashcard
	Warnings   []ReconciliationWarning
}

// ListOptions selects a page of flashcards. Zero Limit means the default page size.
type ListOptions struct {
	Limit  int
	Offset int
	Source domain.GenerationType
}

// FlashcardPage is one page of a flashcard listing.
type FlashcardPage struct {
	Flashcards []*domain.Flashcard
	Total      int
	Limit      int
	Offset     int
}

// FlashcardService provides flashcard ingestion and management operations.
type FlashcardService interface {
	// CreateBatch validates generation references for all items, inserts the
	// flashcards in one statement and then reconciles generation accepted
	// counts. Reconciliation failures are reported in BatchResult.Warnings.
	//
	// Returns:
	//   - a GenerationReferenceError wrapping ErrNotFound or ErrForbidden
	//     when an item references a missing or foreign generation
	//   - an error wrapping domain.ErrValidation for an empty or oversized batch
	//   - an error wrapping ErrDatabase when the store fails or creates nothing
	CreateBatch(ctx context.Context, owner uuid.UUID, items []domain.FlashcardItem) (*BatchResult, error)

	// CreateFlashcard creates a single flashcard. It is a one-item batch.
	CreateFlashcard(ctx context.Context, owner uuid.UUID, item domain.FlashcardItem) (*BatchResult, error)

	// GetFlashcard returns ErrNotFound or ErrNotOwned when the card is not visible to owner.
	GetFlashcard(ctx context.Context, owner uuid.UUID, id uuid.UUID) (*domain.Flashcard, error)

	// ListFlashcards returns the owner's flashcards, newest first.
	ListFlashcards(ctx context.Context, owner uuid.UUID, opts ListOptions) (*FlashcardPage, error)

	// UpdateContent replaces front and back. Scheduling state is never changed.
	UpdateContent(ctx context.Context, owner uuid.UUID, id uuid.UUID, front, back string) (*domain.Flashcard, error)

	// DeleteFlashcard removes a flashcard permanently.
	DeleteFlashcard(ctx context.Context, owner uuid.UUID, id uuid.UUID) error
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	txRunner    store.TxRunner
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	srsService  srs.Service
	config      Config
	now         func() time.Time
	logger      *slog.Logger
}

// NewFlashcardService creates a new FlashcardService.
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	txRunner store.TxRunner,
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	srsService srs.Service,
	config Config,
	logger *slog.Logger,
) (FlashcardService, error) {
	if txRunner == nil {
		return nil, domain.NewValidationError("txRunner", "cannot be nil", domain.ErrValidation)
	}
	if flashcards == nil {
		return nil, domain.NewValidationError("flashcards", "cannot be nil", domain.ErrValidation)
	}
	if generations == nil {
		return nil, domain.NewValidationError("generations", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}

	defaults := DefaultConfig()
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = defaults.MaxBatchSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = defaults.MaxPageSize
	}
	if config.DefaultPageSize <= 0 || config.DefaultPageSize > config.MaxPageSize {
		config.DefaultPageSize = min(defaults.DefaultPageSize, config.MaxPageSize)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		txRunner:    txRunner,
		flashcards:  flashcards,
		generations: generations,
		srsService:  srsService,
		config:      config,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateFlashcard implements FlashcardService.CreateFlashcard
func (s *flashcardServiceImpl) CreateFlashcard(
	ctx context.Context,
	owner uuid.UUID,
	item domain.FlashcardItem,
) (*BatchResult, error) {
	return s.CreateBatch(ctx, owner, []domain.FlashcardItem{item})
}

// CreateBatch implements FlashcardService.CreateBatch
func (s *flashcardServiceImpl) CreateBatch(
	ctx context.Context,
	owner uuid.UUID,
	items []domain.FlashcardItem,
) (*BatchResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validateBatch(owner, items); err != nil {
		log.Debug("batch rejected", slog.String("error", err.Error()))
		return nil, err
	}

	generationIDs := distinctGenerationIDs(items)

	log.Debug("ingesting flashcard batch",
		slog.String("user_id", owner.String()),
		slog.Int("item_count", len(items)),
		slog.Int("generation_count", len(generationIDs)))

	var created []*domain.Flashcard
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.checkGenerationOwnership(ctx, s.generations.WithTx(tx), owner, generationIDs); err != nil {
			return err
		}

		now := s.now()
		cards := make([]*domain.Flashcard, 0, len(items))
		for i, item := range items {
			card, err := domain.NewFlashcard(owner, item, now)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			card.Schedule = s.srsService.InitialSchedule(now)
			cards = append(cards, card)
		}

		rows, err := s.flashcards.WithTx(tx).CreateMany(ctx, cards)
		if err != nil {
			return MapStoreError("create_batch", err)
		}
		if len(rows) == 0 {
			return NewServiceError("create_batch", "no records created", ErrDatabase)
		}
		created = rows
		return nil
	})
	if err != nil {
		var refErr *GenerationReferenceError
		switch {
		case errors.As(err, &refErr):
			log.Warn("batch references unusable generations",
				slog.String("user_id", owner.String()),
				slog.Any("missing_ids", refErr.MissingIDs),
				slog.Any("unauthorized_ids", refErr.UnauthorizedIDs))
		case errors.Is(err, domain.ErrValidation):
			log.Debug("batch item rejected", slog.String("error", err.Error()))
		default:
			log.Error("failed to create flashcard batch",
				slog.String("error", err.Error()),
				slog.String("user_id", owner.String()))
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) ||
			errors.Is(err, ErrDatabase) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, NewServiceError("create_batch", "transaction failed", fmt.Errorf("%w: %w", ErrDatabase, err))
	}

	result := &BatchResult{Flashcards: created}
	// The cards are committed, so counter bookkeeping outlives the request.
	result.Warnings = s.reconcileAcceptedCounts(context.WithoutCancel(ctx), created)

	log.Info("flashcard batch created",
		slog.String("user_id", owner.String()),
		slog.Int("created_count", len(created)),
		slog.Int("warning_count", len(result.Warnings)))
	return result, nil
}

func (s *flashcardServiceImpl) validateBatch(owner uuid.UUID, items []domain.FlashcardItem) error {
	if owner == uuid.Nil {
		return domain.NewValidationError("user_id", "cannot be empty", domain.ErrInvalidID)
	}
	if len(items) == 0 {
		return domain.NewValidationError("flashcards", "at least one flashcard is required", domain.ErrValidation)
	}
	if len(items) > s.config.MaxBatchSize {
		return domain.NewValidationError("flashcards",
			fmt.Sprintf("at most %d flashcards per batch", s.config.MaxBatchSize), domain.ErrValidation)
	}
	for i, item := range items {
		if item.IsZero() {
			return domain.NewValidationError(fmt.Sprintf("flashcards[%d]", i), "item is empty", domain.ErrEmptyContent)
		}
	}
	return nil
}

// distinctGenerationIDs returns the sorted, de-duplicated generation IDs
// referenced by AI-sourced items.
func distinctGenerationIDs(items []domain.FlashcardItem) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, item := range items {
		id, ok := item.GenerationID()
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// checkGenerationOwnership fetches every referenced generation in one call.
// Missing generations are reported before foreign ones.
func (s *flashcardServiceImpl) checkGenerationOwnership(
	ctx context.Context,
	generations store.GenerationStore,
	owner uuid.UUID,
	ids []int64,
) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := generations.GetByIDs(ctx, ids)
	if err != nil {
		return MapStoreError("create_batch", err)
	}

	byID := make(map[int64]*domain.Generation, len(found))
	for _, g := range found {
		byID[g.ID] = g
	}

	var missing, unauthorized []int64
	for _, id := range ids {
		g, ok := byID[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !g.OwnedBy(owner):
			unauthorized = append(unauthorized, id)
		}
	}

	if len(missing) > 0 {
		return &GenerationReferenceError{Kind: ErrNotFound, MissingIDs: missing}
	}
	if len(unauthorized) > 0 {
		return &GenerationReferenceError{Kind: ErrForbidden, UnauthorizedIDs: unauthorized}
	}
	return nil
}

// reconcileAcceptedCounts adds the number of created cards per generation to
// each generation's accepted count. It runs after the insert has committed
// and never fails the batch.
func (s *flashcardServiceImpl) reconcileAcceptedCounts(
	ctx context.Context,
	created []*domain.Flashcard,
) []ReconciliationWarning {
	log := logger.FromContextOrDefault(ctx, s.logger)

	counts := make(map[int64]int)
	ids := make([]int64, 0)
	for _, card := range created {
		if card.GenerationType != domain.GenerationTypeAI || card.GenerationID == nil {
			continue
		}
		id := *card.GenerationID
		if _, ok := counts[id]; !ok {
			ids = append(ids, id)
		}
		counts[id]++
	}
	slices.Sort(ids)

	var warnings []ReconciliationWarning
	for _, id := range ids {
		accepted, err := s.generations.IncrementAcceptedCount(ctx, id, counts[id])
		if err != nil {
			log.Warn("failed to update generation accepted count",
				slog.String("error", err.Error()),
				slog.Int64("generation_id", id),
				slog.Int("increment", counts[id]))
			warnings = append(warnings, ReconciliationWarning{GenerationID: id, Count: counts[id], Err: err})
			continue
		}
		log.Debug("generation accepted count updated",
			slog.Int64("generation_id", id),
			slog.Int("accepted_count", accepted))
	}
	return warnings
}

// GetFlashcard implements FlashcardService.GetFlashcard
func (s *flashcardServiceImpl) GetFlashcard(
	ctx context.Context,
	owner uuid.UUID,
	id uuid.UUID,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.flashcards.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return nil, MapStoreError("get_flashcard", err)
	}

	if card.UserID != owner {
		log.Warn("user does not own flashcard",
			slog.String("user_id", owner.String()),
			slog.String("flashcard_id", id.String()))
		return nil, ErrNotOwned
	}
	return card, nil
}

// ListFlashcards implements FlashcardService.ListFlashcards
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	owner uuid.UUID,
	opts ListOptions,
) (*FlashcardPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if opts.Limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative", domain.ErrValidation)
	}
	if opts.Offset < 0 {
		return nil, domain.NewValidationError("offset", "must not be negative", domain.ErrValidation)
	}
	if opts.Source != "" {
		if _, err := domain.ParseGenerationType(string(opts.Source)); err != nil {
			return nil, err
		}
	}

	limit := opts.Limit
	if limit == 0 {
		limit = s.config.DefaultPageSize
	}
	limit = min(limit, s.config.MaxPageSize)

	cards, total, err := s.flashcards.List(ctx, store.FlashcardFilter{
		UserID: owner,
		Source: opts.Source,
		Limit:  limit,
		Offset: opts.Offset,
	})
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", owner.String()))
		return nil, MapStoreError("list_flashcards", err)
	}

	return &FlashcardPage{
		Flashcards: cards,
		Total:      total,
		Limit:      limit,
		Offset:     opts.Offset,
	}, nil
}

// UpdateContent implements FlashcardService.UpdateContent
func (s *flashcardServiceImpl) UpdateContent(
	ctx context.Context,
	owner uuid.UUID,
	id uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateContent(front, back); err != nil {
		return nil, err
	}

	var updated *domain.Flashcard
	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txFlashcards := s.flashcards.WithTx(tx)

		if err := s.requireOwnership(ctx, txFlashcards, owner, id, "update_content"); err != nil {
			return err
		}

		card, err := txFlashcards.UpdateContent(ctx, id, front, back, s.now())
		if err != nil {
			return MapStoreError("update_content", err)
		}
		updated = card
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
			log.Error("failed to update flashcard content",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return nil, err
	}

	log.Info("flashcard content updated", slog.String("flashcard_id", id.String()))
	return updated, nil
}

// DeleteFlashcard implements FlashcardService.DeleteFlashcard
func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, owner uuid.UUID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.txRunner.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txFlashcards := s.flashcards.WithTx(tx)

		if err := s.requireOwnership(ctx, txFlashcards, owner, id, "delete_flashcard"); err != nil {
			return err
		}
		return MapStoreError("delete_flashcard", txFlashcards.Delete(ctx, id))
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
			log.Error("failed to delete flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return err
	}

	log.Info("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}

func (s *flashcardServiceImpl) requireOwnership(
	ctx context.Context,
	flashcards store.FlashcardStore,
	owner uuid.UUID,
	id uuid.UUID,
	operation string,
) error {
	card, err := flashcards.GetByID(ctx, id)
	if err != nil {
		return MapStoreError(operation, err)
	}
	if card.UserID != owner {
		return ErrNotOwned
	}
	return nil
}
