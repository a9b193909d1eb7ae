package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

const generationColumns = `id, user_id, generated_count, accepted_count, created_at, updated_at`

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the GenerationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// WithTx implements store.GenerationStore.WithTx
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
		now:    s.now,
	}
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var (
		g        domain.Generation
		accepted sql.NullInt64
	)
	if err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.GeneratedCount,
		&accepted,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if accepted.Valid {
		n := int(accepted.Int64)
		g.AcceptedCount = &n
	}
	return &g, nil
}

// Create implements store.GenerationStore.Create
func (s *PostgresGenerationStore) Create(ctx context.Context, generation *domain.Generation) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		return nil, err
	}

	var accepted sql.NullInt64
	if generation.AcceptedCount != nil {
		accepted = sql.NullInt64{Int64: int64(*generation.AcceptedCount), Valid: true}
	}

	query := `INSERT INTO generations (user_id, generated_count, accepted_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + generationColumns

	created, err := scanGeneration(s.db.QueryRowContext(ctx, query,
		generation.UserID,
		generation.GeneratedCount,
		accepted,
		generation.CreatedAt,
		generation.UpdatedAt,
	))
	if err != nil {
		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", generation.UserID.String()))
		return nil, MapError(err, nil)
	}

	log.Info("generation created",
		slog.Int64("generation_id", created.ID),
		slog.Int("generated_count", created.GeneratedCount))
	return created, nil
}

// GetByID implements store.GenerationStore.GetByID
func (s *PostgresGenerationStore) GetByID(ctx context.Context, id int64) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = $1`

	g, err := scanGeneration(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrGenerationNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to get generation by ID",
				slog.String("error", err.Error()),
				slog.Int64("generation_id", id))
		}
		return nil, mapped
	}
	return g, nil
}

// GetByIDs implements store.GenerationStore.GetByIDs
func (s *PostgresGenerationStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Generation{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`SELECT %s FROM generations WHERE id IN (%s) ORDER BY id`,
		generationColumns, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to get generations by IDs",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, MapError(err, nil)
	}
	defer func() { _ = rows.Close() }()

	generations := make([]*domain.Generation, 0, len(ids))
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, MapError(err, nil)
		}
		generations = append(generations, g)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err, nil)
	}

	log.Debug("generations fetched",
		slog.Int("requested", len(ids)),
		slog.Int("found", len(generations)))
	return generations, nil
}

// IncrementAcceptedCount implements store.GenerationStore.IncrementAcceptedCount
// The read and the write happen in one statement, so concurrent increments
// for the same generation never lose an update.
func (s *PostgresGenerationStore) IncrementAcceptedCount(ctx context.Context, id int64, n int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if n < 0 {
		return 0, domain.NewValidationError("accepted_count", "increment must not be negative", domain.ErrValidation)
	}

	query := `UPDATE generations
		SET accepted_count = COALESCE(accepted_count, 0) + $1, updated_at = $2
		WHERE id = $3
		RETURNING accepted_count`

	var accepted int
	if err := s.db.QueryRowContext(ctx, query, n, s.now(), id).Scan(&accepted); err != nil {
		mapped := MapError(err, store.ErrGenerationNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to increment accepted count",
				slog.String("error", err.Error()),
				slog.Int64("generation_id", id))
		}
		return 0, mapped
	}

	log.Debug("accepted count incremented",
		slog.Int64("generation_id", id),
		slog.Int("increment", n),
		slog.Int("accepted_count", accepted))
	return accepted, nil
}
