package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service/review"
)

// ReviewHandler handles review submission and due listing requests
type ReviewHandler struct {
	reviewService review.Service
	now           func() time.Time
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.Service, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /api/flashcards/{id}/review requests
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, cardID, ok := handlePrincipalAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.reviewService.SubmitReview(r.Context(), principalID, cardID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", *req.Quality),
		slog.Int("interval", card.Interval))
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// ListDue handles GET /api/flashcards/due requests.
// ?before defaults to the current time; ?limit is capped by the service.
func (h *ReviewHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	before, err := queryTime(r, "before")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if before == nil {
		now := h.now()
		before = &now
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.reviewService.ListDue(r.Context(), principalID, before, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueListResponse{
		Flashcards: flashcardsToResponse(cards),
		Before:     *before,
	})
}
