// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ElsonGrn/sims-explorer/internal/api"
	"github.com/ElsonGrn/sims-explorer/internal/graphstore"
	"github.com/ElsonGrn/sims-explorer/internal/mcpserver"
	"github.com/ElsonGrn/sims-explorer/internal/models"
	"github.com/ElsonGrn/sims-explorer/internal/persist"
	"github.com/ElsonGrn/sims-explorer/internal/simservice"
	"github.com/ElsonGrn/sims-explorer/internal/sse"
)

// initialGraph loads the persisted graph or falls back to the sample
// household when nothing (or nothing readable) is stored.
func initialGraph(db persist.Provider, logger *slog.Logger) models.Graph {
	data, ok, err := db.Load(persist.KeyGraph)
	if err != nil {
		logger.Warn("load graph failed, starting with sample data", slog.String("error", err.Error()))
		return models.SampleGraph()
	}
	if !ok {
		logger.Info("no stored graph, starting with sample data")
		return models.SampleGraph()
	}
	g, err := persist.DecodeGraph(data)
	if err != nil {
		logger.Warn("stored graph unreadable, starting with sample data", slog.String("error", err.Error()))
		return models.SampleGraph()
	}
	logger.Info("graph loaded",
		slog.Int("persons", len(g.People)),
		slog.Int("relationships", len(g.Relationships)))
	return g
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.Bool("import_enabled", cfg.Import.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the document store.
	db, err := persist.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// Build the in-memory graph with its edit history.
	store := graphstore.New(initialGraph(db, logger))
	history := graphstore.NewHistory(store)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Domain service and API router.
	svc := simservice.NewService(history, db, logger, broker,
		time.Duration(cfg.Store.SaveDebounceMS)*time.Millisecond)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the drop-directory importer.
	if cfg.Import.Enabled {
		if err := os.MkdirAll(cfg.Import.Dir, 0o755); err != nil {
			return fmt.Errorf("create import dir: %w", err)
		}
		g.Go(func() error {
			return persist.Watch(gCtx, cfg.Import.Dir, logger, func(data []byte) error {
				return svc.ImportGraph(gCtx, data)
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	waitErr := g.Wait()

	// Persist any debounced edits before the store closes.
	svc.Flush()
	broker.Close()

	if waitErr != nil {
		logger.Error("Application error", slog.String("error", waitErr.Error()))
		return waitErr
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the stdio MCP server against the same document store.
// Logs go to stderr because stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	db, err := persist.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	store := graphstore.New(initialGraph(db, logger))
	history := graphstore.NewHistory(store)
	svc := simservice.NewService(history, db, logger, nil,
		time.Duration(cfg.Store.SaveDebounceMS)*time.Millisecond)
	defer svc.Flush()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}
