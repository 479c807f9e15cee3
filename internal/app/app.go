package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ArticleEnhancer/internal/api"
	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/domain"
	"ArticleEnhancer/internal/infrastructure/llm"
	"ArticleEnhancer/internal/infrastructure/parser"
	"ArticleEnhancer/internal/infrastructure/scheduler"
	"ArticleEnhancer/internal/infrastructure/search"
	"ArticleEnhancer/internal/infrastructure/storage"
	"ArticleEnhancer/internal/infrastructure/telegram"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
	"ArticleEnhancer/internal/retry"
	"ArticleEnhancer/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	enhancer  *usecase.EnhancementService
	batch     *usecase.Batch
	ingestor  *usecase.Ingestor
	scheduler *usecase.Scheduler
	server    *api.Server
}

// New opens the store and builds every adapter and use case.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	store := storage.NewSQLRepository(db, cfg.Database.Driver)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	backend, err := llm.NewBackend(ctx, cfg.LLM, cfg.Server.FrontendURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("completion backend: %w", err)
	}
	policy := retry.Policy{
		MaxAttempts: cfg.LLM.MaxRetries,
		BaseDelay:   cfg.LLM.BaseDelay,
		Multiplier:  2,
	}
	completion := llm.NewProvider(backend, policy, cfg.LLM.MaxTokens, baseLogger.With("component", "llm."+backend.Name()))

	searchClient := &http.Client{Timeout: cfg.Search.Timeout}
	searcher := search.NewProvider(
		search.NewSerpAPI(cfg.Search, searchClient),
		search.NewScraper(cfg.Search.FallbackURL, cfg.Search.UserAgent, searchClient),
		cfg.Search.MaxResults,
		baseLogger.With("component", "search"),
	)

	enhancer := usecase.NewEnhancementService(usecase.EnhancerDeps{
		Store:      store,
		Searcher:   searcher,
		Fetcher:    parser.NewReferenceFetcher(cfg.Fetch, nil, baseLogger.With("component", "fetcher")),
		Completion: completion,
		Logger:     baseLogger.With("component", "enhancer"),
		FetchDelay: cfg.Enhancement.FetchDelay,
	})

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram, nil); tg.Configured() {
		notifier = tg
	}

	batch := usecase.NewBatch(usecase.BatchDeps{
		Store:        store,
		Enhancer:     enhancer,
		Notifier:     notifier,
		Logger:       baseLogger.With("component", "batch"),
		Limit:        cfg.Enhancement.BatchLimit,
		ArticleDelay: cfg.Enhancement.ArticleDelay,
	})

	source := parser.NewBlogSource(cfg.Ingestion, cfg.Fetch, nil, baseLogger.With("component", "source"))

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger,
		db:       db,
		enhancer: enhancer,
		batch:    batch,
		ingestor: usecase.NewIngestor(source, store, baseLogger.With("component", "ingest")),
		server:   api.NewServer(store, enhancer, baseLogger.With("component", "http"), cfg.Server),
	}
	if cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location())
		a.scheduler = usecase.NewScheduler(driver, batch, baseLogger.With("component", "scheduler"))
	}
	return a, nil
}

// Enhance enhances one original article.
func (a *Application) Enhance(ctx context.Context, id string) (domain.EnhancementResult, error) {
	return a.enhancer.Enhance(ctx, id)
}

// EnhanceAll runs one batch over the stored originals.
func (a *Application) EnhanceAll(ctx context.Context) (usecase.BatchSummary, error) {
	return a.batch.ProcessPending(ctx)
}

// Ingest stores new originals from the source blog.
func (a *Application) Ingest(ctx context.Context) (usecase.IngestSummary, error) {
	return a.ingestor.Run(ctx)
}

// Serve runs the HTTP API, and the scheduler when enabled, until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "error", err)
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduler stop", "error", err)
		}
	}
	return serveErr
}

// Close releases the database connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
