package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-flashcards/internal/config"
	"github.com/phrazzld/scry-flashcards/internal/domain/srs"
	"github.com/phrazzld/scry-flashcards/internal/platform/logger"
	"github.com/phrazzld/scry-flashcards/internal/platform/postgres"
	"github.com/phrazzld/scry-flashcards/internal/service"
	"github.com/phrazzld/scry-flashcards/internal/service/review"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	flashcardStore  store.FlashcardStore
	generationStore store.GenerationStore

	// Services
	srsService        srs.Service
	flashcardService  service.FlashcardService
	reviewService     review.Service
	generationService service.GenerationService
}

// loadConfig reads configuration using the persistent CLI flags.
func loadConfig() (*config.Config, error) {
	opts := config.Options{
		ConfigFile:  configFile,
		ConfigPaths: []string{"."},
	}
	if envFile != "" {
		opts.EnvFiles = []string{envFile}
	}

	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// bootstrap loads configuration, sets up logging and opens the database.
// The caller owns the returned connection.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *sql.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("database connection established")

	return cfg, log, db, nil
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	app.flashcardStore = postgres.NewPostgresFlashcardStore(db, log)
	app.generationStore = postgres.NewPostgresGenerationStore(db, log)
	txRunner := store.NewTxRunner(db)

	app.srsService = srs.NewDefaultService()

	var err error
	app.flashcardService, err = service.NewFlashcardService(
		txRunner,
		app.flashcardStore,
		app.generationStore,
		app.srsService,
		service.Config{
			MaxBatchSize:    cfg.API.MaxBatchSize,
			DefaultPageSize: cfg.API.DefaultPageSize,
			MaxPageSize:     cfg.API.MaxPageSize,
		},
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	app.reviewService, err = review.NewService(
		txRunner,
		app.flashcardStore,
		app.srsService,
		cfg.API.DueListLimit,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	app.generationService, err = service.NewGenerationService(app.generationStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	log.Info("application initialized")
	return app, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
