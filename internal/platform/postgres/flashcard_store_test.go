package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flashcardColumnNames = []string{
	"id", "user_id", "front", "back", "generation_type", "generation_id",
	"interval", "repetition", "ease_factor", "due_date", "created_at", "updated_at",
}

func newFlashcardStoreWithMock(t *testing.T) (*PostgresFlashcardStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	l, _ := logger.NewTestLogger(t)
	return NewPostgresFlashcardStore(db, l), mock
}

func flashcardRow(card *domain.Flashcard) []driver.Value {
	var generationID driver.Value
	if card.GenerationID != nil {
		generationID = *card.GenerationID
	}
	return []driver.Value{
		card.ID.String(),
		card.UserID.String(),
		card.Front,
		card.Back,
		string(card.GenerationType),
		generationID,
		int64(card.Interval),
		int64(card.Repetition),
		card.EaseFactor,
		card.DueDate,
		card.CreatedAt,
		card.UpdatedAt,
	}
}

func mustFlashcard(t *testing.T, userID uuid.UUID, item domain.FlashcardItem, now time.Time) *domain.Flashcard {
	t.Helper()
	card, err := domain.NewFlashcard(userID, item, now)
	require.NoError(t, err)
	return card
}

func mustManualItem(t *testing.T, front, back string) domain.FlashcardItem {
	t.Helper()
	item, err := domain.NewManualItem(front, back)
	require.NoError(t, err)
	return item
}

func mustAIItem(t *testing.T, front, back string, generationID int64) domain.FlashcardItem {
	t.Helper()
	item, err := domain.NewAIItem(front, back, generationID)
	require.NoError(t, err)
	return item
}

func TestFlashcardStoreCreateMany(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("inserts all cards in one statement", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		manual := mustFlashcard(t, userID, mustManualItem(t, "Q1", "A1"), now)
		ai := mustFlashcard(t, userID, mustAIItem(t, "Q2", "A2", 7), now)

		args := make([]driver.Value, 0, 2*flashcardColumnCount)
		for i := 0; i < 2*flashcardColumnCount; i++ {
			args = append(args, sqlmock.AnyArg())
		}

		mock.ExpectQuery(`INSERT INTO flashcards \(.+\) VALUES \(\$1, .+\$12\), \(\$13, .+\$24\) RETURNING`).
			WithArgs(args...).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames).
				AddRow(flashcardRow(manual)...).
				AddRow(flashcardRow(ai)...))

		created, err := s.CreateMany(context.Background(), []*domain.Flashcard{manual, ai})

		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.Equal(t, manual.ID, created[0].ID)
		assert.Equal(t, domain.GenerationTypeManual, created[0].GenerationType)
		assert.Nil(t, created[0].GenerationID)
		require.NotNil(t, created[1].GenerationID)
		assert.Equal(t, int64(7), *created[1].GenerationID)
		assert.Equal(t, domain.GenerationTypeAI, created[1].GenerationType)
		assert.InDelta(t, 2.5, created[1].EaseFactor, 1e-9)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input does not touch the database", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		created, err := s.CreateMany(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid card rejected before insert", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		card := mustFlashcard(t, userID, mustManualItem(t, "Q", "A"), now)
		card.Front = ""

		_, err := s.CreateMany(context.Background(), []*domain.Flashcard{card})

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign key violation maps to invalid entity", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		card := mustFlashcard(t, userID, mustAIItem(t, "Q", "A", 99), now)
		mock.ExpectQuery(`INSERT INTO flashcards`).WillReturnError(newPgError(foreignKeyViolationCode))

		_, err := s.CreateMany(context.Background(), []*domain.Flashcard{card})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero returned rows yields empty result", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		card := mustFlashcard(t, userID, mustManualItem(t, "Q", "A"), now)
		mock.ExpectQuery(`INSERT INTO flashcards`).WillReturnRows(sqlmock.NewRows(flashcardColumnNames))

		created, err := s.CreateMany(context.Background(), []*domain.Flashcard{card})

		require.NoError(t, err)
		assert.Empty(t, created)
	})
}

func TestFlashcardStoreGetByID(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	card := mustFlashcard(t, uuid.New(), mustAIItem(t, "Front", "Back", 3), now)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectQuery(`SELECT .+ FROM flashcards WHERE id = \$1`).
			WithArgs(card.ID).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames).AddRow(flashcardRow(card)...))

		got, err := s.GetByID(context.Background(), card.ID)

		require.NoError(t, err)
		assert.Equal(t, card.UserID, got.UserID)
		assert.Equal(t, "Front", got.Front)
		assert.True(t, card.DueDate.Equal(got.DueDate))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectQuery(`SELECT .+ FROM flashcards`).WillReturnRows(sqlmock.NewRows(flashcardColumnNames))

		_, err := s.GetByID(context.Background(), card.ID)

		assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
	})

	t.Run("driver error passes through", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		boom := errors.New("connection reset")
		mock.ExpectQuery(`SELECT .+ FROM flashcards`).WillReturnError(boom)

		_, err := s.GetByID(context.Background(), card.ID)

		assert.ErrorIs(t, err, boom)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestFlashcardStoreList(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	card := mustFlashcard(t, userID, mustManualItem(t, "Q", "A"), now)

	t.Run("all sources", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM flashcards WHERE user_id = \$1$`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
		mock.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(userID, 1, 2).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames).AddRow(flashcardRow(card)...))

		cards, total, err := s.List(context.Background(), store.FlashcardFilter{UserID: userID, Limit: 1, Offset: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, cards, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by source", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM flashcards WHERE user_id = \$1 AND generation_type = \$2`).
			WithArgs(userID, "ai").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
		mock.ExpectQuery(`LIMIT \$3 OFFSET \$4`).
			WithArgs(userID, "ai", 10, 0).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames))

		cards, total, err := s.List(context.Background(), store.FlashcardFilter{
			UserID: userID, Source: domain.GenerationTypeAI, Limit: 10,
		})

		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.NotNil(t, cards)
		assert.Empty(t, cards)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlashcardStoreListDue(t *testing.T) {
	t.Parallel()
	s, mock := newFlashcardStoreWithMock(t)

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()
	card := mustFlashcard(t, userID, mustManualItem(t, "Q", "A"), now)

	mock.ExpectQuery(`WHERE user_id = \$1 AND due_date <= \$2\s+ORDER BY due_date ASC, id ASC\s+LIMIT \$3`).
		WithArgs(userID, now, 25).
		WillReturnRows(sqlmock.NewRows(flashcardColumnNames).AddRow(flashcardRow(card)...))

	cards, err := s.ListDue(context.Background(), userID, now, 25)

	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, card.ID, cards[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlashcardStoreUpdateContent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)
	card := mustFlashcard(t, uuid.New(), mustManualItem(t, "Old", "Old back"), now)

	t.Run("updates content only", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		updated := *card
		updated.Front, updated.Back, updated.UpdatedAt = "New", "New back", later

		mock.ExpectQuery(`UPDATE flashcards\s+SET front = \$1, back = \$2, updated_at = \$3\s+WHERE id = \$4`).
			WithArgs("New", "New back", later, card.ID).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames).AddRow(flashcardRow(&updated)...))

		got, err := s.UpdateContent(context.Background(), card.ID, "New", "New back", later)

		require.NoError(t, err)
		assert.Equal(t, "New", got.Front)
		assert.Equal(t, card.Schedule.EaseFactor, got.EaseFactor)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("content validated first", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		_, err := s.UpdateContent(context.Background(), card.ID, "   ", "back", later)

		assert.ErrorIs(t, err, domain.ErrEmptyContent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing card", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectQuery(`UPDATE flashcards`).WillReturnRows(sqlmock.NewRows(flashcardColumnNames))

		_, err := s.UpdateContent(context.Background(), card.ID, "New", "New back", later)

		assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
	})
}

func TestFlashcardStoreUpdateSchedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	card := mustFlashcard(t, uuid.New(), mustManualItem(t, "Q", "A"), now)
	next := domain.Schedule{Interval: 1, Repetition: 1, EaseFactor: 2.6, DueDate: now.AddDate(0, 0, 1)}

	t.Run("persists the new state", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		updated := *card
		updated.Schedule = next

		mock.ExpectQuery(`SET interval = \$1, repetition = \$2, ease_factor = \$3, due_date = \$4, updated_at = \$5`).
			WithArgs(1, 1, 2.6, next.DueDate, now, card.ID).
			WillReturnRows(sqlmock.NewRows(flashcardColumnNames).AddRow(flashcardRow(&updated)...))

		got, err := s.UpdateSchedule(context.Background(), card.ID, next, now)

		require.NoError(t, err)
		assert.Equal(t, next.Interval, got.Interval)
		assert.True(t, next.DueDate.Equal(got.DueDate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects ease below floor", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		bad := next
		bad.EaseFactor = 1.2

		_, err := s.UpdateSchedule(context.Background(), card.ID, bad, now)

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFlashcardStoreDelete(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectExec(`DELETE FROM flashcards WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		s, mock := newFlashcardStoreWithMock(t)

		mock.ExpectExec(`DELETE FROM flashcards`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrFlashcardNotFound)
	})
}

func TestFlashcardStoreWithTx(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM flashcards`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := NewPostgresFlashcardStore(db, nil).WithTx(tx)
	require.NoError(t, s.Delete(context.Background(), id))
	require.NoError(t, tx.Rollback())

	assert.NoError(t, mock.ExpectationsWereMet())
}
