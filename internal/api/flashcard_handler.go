package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// FlashcardHandler handles flashcard ingestion and management requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		flashcardService: flashcardService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateBatch handles POST /api/flashcards requests.
// Either every flashcard in the batch is created or none is.
func (h *FlashcardHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	var req CreateBatchRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	items := make([]domain.FlashcardItem, 0, len(req.Flashcards))
	for i, itemReq := range req.Flashcards {
		item, err := itemReq.toItem()
		if err != nil {
			log.Debug("rejected batch item", slog.Int("index", i))
			HandleAPIError(w, r, err, "")
			return
		}
		items = append(items, item)
	}

	result, err := h.flashcardService.CreateBatch(r.Context(), principalID, items)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcards")
		return
	}

	log.Debug("created flashcard batch",
		slog.String("user_id", principalID.String()),
		slog.Int("count", len(result.Flashcards)),
		slog.Int("warnings", len(result.Warnings)))
	shared.RespondWithJSON(w, r, http.StatusCreated, batchToResponse(result))
}

// CreateFlashcard handles POST /api/flashcards/single requests
func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	var req FlashcardItemRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	item, err := req.toItem()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.flashcardService.CreateFlashcard(r.Context(), principalID, item)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, batchToResponse(result))
}

// ListFlashcards handles GET /api/flashcards requests.
// Supports ?limit, ?offset and ?source=manual|ai.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.flashcardService.ListFlashcards(r.Context(), principalID, service.ListOptions{
		Limit:  limit,
		Offset: offset,
		Source: domain.GenerationType(r.URL.Query().Get("source")),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Flashcards: flashcardsToResponse(page.Flashcards),
		Total:      page.Total,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}

// GetFlashcard handles GET /api/flashcards/{id} requests
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, cardID, ok := handlePrincipalAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), principalID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// UpdateFlashcard handles PUT /api/flashcards/{id} requests.
// Only front and back change; the review schedule is kept.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, cardID, ok := handlePrincipalAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.flashcardService.UpdateContent(r.Context(), principalID, cardID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}

	log.Debug("flashcard content updated", slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, flashcardToResponse(card))
}

// DeleteFlashcard handles DELETE /api/flashcards/{id} requests
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, cardID, ok := handlePrincipalAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), principalID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
