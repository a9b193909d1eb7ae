package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

const flashcardColumns = `id, user_id, front, back, generation_type, generation_id,
	interval, repetition, ease_factor, due_date, created_at, updated_at`

const flashcardColumnCount = 12

// PostgreSQL accepts at most 65535 bind parameters per statement.
const maxFlashcardsPerInsert = 65535 / flashcardColumnCount

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card           domain.Flashcard
		generationType string
		generationID   sql.NullInt64
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&generationType,
		&generationID,
		&card.Interval,
		&card.Repetition,
		&card.EaseFactor,
		&card.DueDate,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.GenerationType = domain.GenerationType(generationType)
	if generationID.Valid {
		id := generationID.Int64
		card.GenerationID = &id
	}
	return &card, nil
}

func scanFlashcards(rows *sql.Rows) ([]*domain.Flashcard, error) {
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

func nullableGenerationID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// CreateMany implements store.FlashcardStore.CreateMany
// All cards go into one multi-row INSERT, so the insert is atomic even
// outside a transaction.
func (s *PostgresFlashcardStore) CreateMany(ctx context.Context, cards []*domain.Flashcard) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		log.Debug("no flashcards to create")
		return []*domain.Flashcard{}, nil
	}
	if len(cards) > maxFlashcardsPerInsert {
		return nil, fmt.Errorf("%w: %d flashcards exceed the per-statement limit of %d",
			store.ErrInvalidEntity, len(cards), maxFlashcardsPerInsert)
	}

	var (
		sb   strings.Builder
		args = make([]any, 0, len(cards)*flashcardColumnCount)
	)
	sb.WriteString("INSERT INTO flashcards (")
	sb.WriteString(flashcardColumns)
	sb.WriteString(") VALUES ")

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return nil, err
		}

		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * flashcardColumnCount
		sb.WriteString("(")
		for c := 1; c <= flashcardColumnCount; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+c)
		}
		sb.WriteString(")")

		args = append(args,
			card.ID,
			card.UserID,
			card.Front,
			card.Back,
			string(card.GenerationType),
			nullableGenerationID(card.GenerationID),
			card.Interval,
			card.Repetition,
			card.EaseFactor,
			card.DueDate,
			card.CreatedAt,
			card.UpdatedAt,
		)
	}
	sb.WriteString(" RETURNING ")
	sb.WriteString(flashcardColumns)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to insert flashcards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return nil, MapError(err, nil)
	}

	created, err := scanFlashcards(rows)
	if err != nil {
		log.Error("failed to read inserted flashcards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return nil, MapError(err, nil)
	}

	log.Info("flashcards created",
		slog.Int("requested", len(cards)),
		slog.Int("created", len(created)))
	return created, nil
}

// GetByID implements store.FlashcardStore.GetByID
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := MapError(err, store.ErrFlashcardNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("flashcard not found", slog.String("flashcard_id", id.String()))
		} else {
			log.Error("failed to get flashcard by ID",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return nil, mapped
	}
	return card, nil
}

// List implements store.FlashcardStore.List
func (s *PostgresFlashcardStore) List(ctx context.Context, filter store.FlashcardFilter) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := "WHERE user_id = $1"
	args := []any{filter.UserID}
	if filter.Source != "" {
		where += " AND generation_type = $2"
		args = append(args, string(filter.Source))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM flashcards ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, 0, MapError(err, nil)
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(
		`SELECT %s FROM flashcards %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		flashcardColumns, where, limitPos, limitPos+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", filter.UserID.String()))
		return nil, 0, MapError(err, nil)
	}

	cards, err := scanFlashcards(rows)
	if err != nil {
		return nil, 0, MapError(err, nil)
	}
	return cards, total, nil
}

// ListDue implements store.FlashcardStore.ListDue
func (s *PostgresFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	before time.Time,
	limit int,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + flashcardColumns + `
		FROM flashcards
		WHERE user_id = $1 AND due_date <= $2
		ORDER BY due_date ASC, id ASC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, before, limit)
	if err != nil {
		log.Error("failed to list due flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}

	cards, err := scanFlashcards(rows)
	if err != nil {
		return nil, MapError(err, nil)
	}

	log.Debug("due flashcards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateContent implements store.FlashcardStore.UpdateContent
func (s *PostgresFlashcardStore) UpdateContent(
	ctx context.Context,
	id uuid.UUID,
	front, back string,
	updatedAt time.Time,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateContent(front, back); err != nil {
		return nil, err
	}

	query := `UPDATE flashcards
		SET front = $1, back = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + flashcardColumns

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, front, back, updatedAt, id))
	if err != nil {
		mapped := MapError(err, store.ErrFlashcardNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to update flashcard content",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return nil, mapped
	}

	log.Debug("flashcard content updated", slog.String("flashcard_id", id.String()))
	return card, nil
}

// UpdateSchedule implements store.FlashcardStore.UpdateSchedule
func (s *PostgresFlashcardStore) UpdateSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.Schedule,
	updatedAt time.Time,
) (*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	query := `UPDATE flashcards
		SET interval = $1, repetition = $2, ease_factor = $3, due_date = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + flashcardColumns

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query,
		schedule.Interval,
		schedule.Repetition,
		schedule.EaseFactor,
		schedule.DueDate,
		updatedAt,
		id,
	))
	if err != nil {
		mapped := MapError(err, store.ErrFlashcardNotFound)
		if !store.IsNotFoundError(mapped) {
			log.Error("failed to update flashcard schedule",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", id.String()))
		}
		return nil, mapped
	}

	log.Debug("flashcard schedule updated",
		slog.String("flashcard_id", id.String()),
		slog.Int("interval", schedule.Interval),
		slog.Time("due_date", schedule.DueDate))
	return card, nil
}

// Delete implements store.FlashcardStore.Delete
func (s *PostgresFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return MapError(err, nil)
	}

	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	log.Info("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}
