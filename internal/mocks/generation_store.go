package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockGenerationStore mocks store.GenerationStore.
type MockGenerationStore struct {
	mock.Mock
}

var _ store.GenerationStore = (*MockGenerationStore)(nil)

func (m *MockGenerationStore) Create(ctx context.Context, generation *domain.Generation) (*domain.Generation, error) {
	args := m.Called(ctx, generation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Generation), args.Error(1)
}

func (m *MockGenerationStore) GetByID(ctx context.Context, id int64) (*domain.Generation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Generation), args.Error(1)
}

func (m *MockGenerationStore) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Generation, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Generation), args.Error(1)
}

func (m *MockGenerationStore) IncrementAcceptedCount(ctx context.Context, id int64, n int) (int, error) {
	args := m.Called(ctx, id, n)
	return args.Int(0), args.Error(1)
}

// WithTx returns the mock itself so expectations hold inside transactions.
func (m *MockGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return m
}
