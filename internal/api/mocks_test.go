package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// mockFlashcardService implements service.FlashcardService with overridable funcs.
type mockFlashcardService struct {
	CreateBatchFn     func(ctx context.Context, owner uuid.UUID, items []domain.FlashcardItem) (*service.BatchResult, error)
	CreateFlashcardFn func(ctx context.Context, owner uuid.UUID, item domain.FlashcardItem) (*service.BatchResult, error)
	GetFlashcardFn    func(ctx context.Context, owner, id uuid.UUID) (*domain.Flashcard, error)
	ListFlashcardsFn  func(ctx context.Context, owner uuid.UUID, opts service.ListOptions) (*service.FlashcardPage, error)
	UpdateContentFn   func(ctx context.Context, owner, id uuid.UUID, front, back string) (*domain.Flashcard, error)
	DeleteFlashcardFn func(ctx context.Context, owner, id uuid.UUID) error
}

func (m *mockFlashcardService) CreateBatch(
	ctx context.Context,
	owner uuid.UUID,
	items []domain.FlashcardItem,
) (*service.BatchResult, error) {
	return m.CreateBatchFn(ctx, owner, items)
}

func (m *mockFlashcardService) CreateFlashcard(
	ctx context.Context,
	owner uuid.UUID,
	item domain.FlashcardItem,
) (*service.BatchResult, error) {
	return m.CreateFlashcardFn(ctx, owner, item)
}

func (m *mockFlashcardService) GetFlashcard(ctx context.Context, owner, id uuid.UUID) (*domain.Flashcard, error) {
	return m.GetFlashcardFn(ctx, owner, id)
}

func (m *mockFlashcardService) ListFlashcards(
	ctx context.Context,
	owner uuid.UUID,
	opts service.ListOptions,
) (*service.FlashcardPage, error) {
	return m.ListFlashcardsFn(ctx, owner, opts)
}

func (m *mockFlashcardService) UpdateContent(
	ctx context.Context,
	owner, id uuid.UUID,
	front, back string,
) (*domain.Flashcard, error) {
	return m.UpdateContentFn(ctx, owner, id, front, back)
}

func (m *mockFlashcardService) DeleteFlashcard(ctx context.Context, owner, id uuid.UUID) error {
	return m.DeleteFlashcardFn(ctx, owner, id)
}

// mockReviewService implements review.Service with overridable funcs.
type mockReviewService struct {
	SubmitReviewFn func(ctx context.Context, owner, id uuid.UUID, quality int) (*domain.Flashcard, error)
	ListDueFn      func(ctx context.Context, owner uuid.UUID, ref *time.Time, limit int) ([]*domain.Flashcard, error)
}

func (m *mockReviewService) SubmitReview(
	ctx context.Context,
	owner, id uuid.UUID,
	quality int,
) (*domain.Flashcard, error) {
	return m.SubmitReviewFn(ctx, owner, id, quality)
}

func (m *mockReviewService) ListDue(
	ctx context.Context,
	owner uuid.UUID,
	ref *time.Time,
	limit int,
) ([]*domain.Flashcard, error) {
	return m.ListDueFn(ctx, owner, ref, limit)
}

// mockGenerationService implements service.GenerationService.
type mockGenerationService struct {
	GetGenerationFn func(ctx context.Context, owner uuid.UUID, id int64) (*domain.Generation, error)
}

func (m *mockGenerationService) GetGeneration(
	ctx context.Context,
	owner uuid.UUID,
	id int64,
) (*domain.Generation, error) {
	return m.GetGenerationFn(ctx, owner, id)
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testCard returns a persisted-looking flashcard owned by owner.
func testCard(owner uuid.UUID) *domain.Flashcard {
	return &domain.Flashcard{
		ID:             uuid.New(),
		UserID:         owner,
		Front:          "capital of France?",
		Back:           "Paris",
		GenerationType: domain.GenerationTypeManual,
		Schedule:       domain.NewSchedule(testNow),
		CreatedAt:      testNow,
		UpdatedAt:      testNow,
	}
}

// newRequest builds a request with an optional JSON body, principal and
// chi URL params.
func newRequest(
	t *testing.T,
	method, target string,
	body interface{},
	principal uuid.UUID,
	params map[string]string,
) *http.Request {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := req.Context()
	if principal != uuid.Nil {
		ctx = shared.WithPrincipalID(ctx, principal)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}
