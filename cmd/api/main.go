// Package main is the entry point for the visit scheduling API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pgvcc/agenda/internal/clock"
	"github.com/pgvcc/agenda/internal/config"
	"github.com/pgvcc/agenda/internal/handler"
	"github.com/pgvcc/agenda/internal/middleware"
	"github.com/pgvcc/agenda/internal/reminder"
	"github.com/pgvcc/agenda/internal/service"
	"github.com/pgvcc/agenda/internal/store"
	"github.com/pgvcc/agenda/migrations"
)

// maxBodyBytes caps request bodies; the largest legitimate payload is a
// full collection import.
const maxBodyBytes = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Clock ------------------------------------------------------------
	// The reference "today" for past-date checks. TODAY pins it for demos.
	var clk clock.Clock = clock.Real{}
	if !cfg.Today.IsZero() {
		clk = clock.NewFixed(cfg.Today)
		logger.Info("reference date pinned", "today", cfg.Today.Format("2006-01-02"))
	}

	// --- Snapshot backend -------------------------------------------------
	// With DATABASE_URL set, the visit snapshot lives in a single Postgres
	// jsonb row; otherwise it is a JSON file on disk.
	var snapshot store.SnapshotStore
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		// Verify the DB is reachable before accepting traffic.
		if err := pool.Ping(context.Background()); err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		if err := migrateUp(cfg.DatabaseURL); err != nil {
			logger.Error("migrations failed", "error", err)
			os.Exit(1)
		}

		snapshot = store.NewPGSnapshot(pool, store.DefaultSnapshotKey)
		logger.Info("database snapshot backend ready")
	} else {
		snapshot = store.NewFileSnapshot(cfg.SnapshotFile)
		logger.Info("file snapshot backend ready", "path", cfg.SnapshotFile)
	}

	// --- Store and services -----------------------------------------------
	visits := store.New(snapshot, logger)
	visits.Open(context.Background())

	svc := service.NewVisitService(visits, clk)

	sweeper := reminder.New(svc, &reminder.LogNotifier{Log: logger}, clk, logger)
	if err := sweeper.Start(cfg.ReminderCron); err != nil {
		logger.Error("invalid reminder cron spec", "spec", cfg.ReminderCron, "error", err)
		os.Exit(1)
	}
	defer sweeper.Stop()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", handler.NewServer(svc, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// migrateUp applies all pending migrations using the embedded SQL files.
// Goose needs a database/sql handle, so a short-lived pgx stdlib connection
// is opened just for the migration run.
func migrateUp(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
