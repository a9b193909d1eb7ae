package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockFlashcardStore mocks store.FlashcardStore.
//
// CreateMany accepts either a []*domain.Flashcard or a
// func([]*domain.Flashcard) []*domain.Flashcard as its first return value;
// the function form lets a test echo the inserted rows back.
type MockFlashcardStore struct {
	mock.Mock
}

var _ store.FlashcardStore = (*MockFlashcardStore)(nil)

func (m *MockFlashcardStore) CreateMany(ctx context.Context, cards []*domain.Flashcard) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, cards)
	if fn, ok := args.Get(0).(func([]*domain.Flashcard) []*domain.Flashcard); ok {
		return fn(cards), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) List(ctx context.Context, filter store.FlashcardFilter) ([]*domain.Flashcard, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Flashcard), args.Int(1), args.Error(2)
}

func (m *MockFlashcardStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	before time.Time,
	limit int,
) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, userID, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) UpdateContent(
	ctx context.Context,
	id uuid.UUID,
	front, back string,
	updatedAt time.Time,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, id, front, back, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) UpdateSchedule(
	ctx context.Context,
	id uuid.UUID,
	schedule domain.Schedule,
	updatedAt time.Time,
) (*domain.Flashcard, error) {
	args := m.Called(ctx, id, schedule, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flashcard), args.Error(1)
}

func (m *MockFlashcardStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// WithTx returns the mock itself so expectations hold inside transactions.
func (m *MockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return m
}
