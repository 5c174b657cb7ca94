/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment configuration
  2. Initialize SQLite store and load the application state
  3. Build the title classifier and optional GenAI rewriter
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides APP_PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  APP_PORT, DB_PATH, LOG_LEVEL, CORS_ORIGINS,
  HEAD_TITLE_KEYWORDS, DEPUTY_TITLE_KEYWORDS,
  TOP_TITLE_KEYWORDS, MANAGER_TITLE_KEYWORDS,
  GENAI_API_KEY, GENAI_MODEL
  A .env file in the working directory is honored.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/attendance.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/config"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/rewrite"
	"github.com/warp/attendance-engine/roster"
	"github.com/warp/attendance-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (overrides APP_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.App.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	}))
	slog.SetDefault(logger)

	// Initialize store and load state
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	store.SetLogger(logger)

	state, err := store.Load(context.Background())
	if err != nil {
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}
	logger.Info("state loaded",
		"employees", len(state.Employees),
		"requests", len(state.Requests),
		"holidays", len(state.Holidays),
		"entries", len(state.Entries))

	// Domain wiring
	authority := engine.Authority{
		Classifier: engine.NewTitleClassifier(cfg.Authority.HeadKeywords, cfg.Authority.DeputyKeywords),
	}

	var rewriter rewrite.Rewriter = rewrite.Noop{}
	if cfg.GenAI.APIKey != "" {
		gemini, err := rewrite.NewGemini(context.Background(), cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			logger.Warn("GenAI rewriter unavailable, reasons pass through unchanged", "error", err)
		} else {
			rewriter = gemini
		}
	}

	handler := api.NewHandler(store, state, authority, rewriter, logger)
	handler.Rules = roster.Rules{
		TopKeywords:     cfg.Roster.TopKeywords,
		ManagerKeywords: cfg.Roster.ManagerKeywords,
	}
	router := api.NewRouter(handler, logger, cfg.App.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // XLSX export of a big month takes a moment
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
