package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-flashcards/internal/api"
	apiMiddleware "github.com/phrazzld/scry-flashcards/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewCORS(app.config.Server.CORSAllowedOrigins))

	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware.RequirePrincipal)

		r.Route("/flashcards", func(r chi.Router) {
			r.Post("/", flashcardHandler.CreateBatch)
			r.Post("/single", flashcardHandler.CreateFlashcard)
			r.Get("/", flashcardHandler.ListFlashcards)
			r.Get("/due", reviewHandler.ListDue)

			r.Get("/{id}", flashcardHandler.GetFlashcard)
			r.Put("/{id}", flashcardHandler.UpdateFlashcard)
			r.Delete("/{id}", flashcardHandler.DeleteFlashcard)
			r.Post("/{id}/review", reviewHandler.SubmitReview)
		})

		r.Get("/generations/{id}", generationHandler.GetGeneration)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
