package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// GenerationHandler exposes generation records to their owners
type GenerationHandler struct {
	generationService service.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generationService service.GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generation_handler")),
	}
}

// GetGeneration handles GET /api/generations/{id} requests
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principalID, ok := handlePrincipal(w, r, log)
	if !ok {
		return
	}

	generationID, err := getPathInt64(r, "id")
	if err != nil {
		log.Warn("invalid generation id", slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, err, "")
		return
	}

	generation, err := h.generationService.GetGeneration(r.Context(), principalID, generationID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get generation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generationToResponse(generation))
}
