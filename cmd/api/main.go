// Package main is the entry point for the Travel Desk API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/jpcaldeira/travel-desk/backend/internal/config"
	"github.com/jpcaldeira/travel-desk/backend/internal/handler"
	"github.com/jpcaldeira/travel-desk/backend/internal/metrics"
	"github.com/jpcaldeira/travel-desk/backend/internal/middleware"
	"github.com/jpcaldeira/travel-desk/backend/internal/notify"
	"github.com/jpcaldeira/travel-desk/backend/internal/repo"
	"github.com/jpcaldeira/travel-desk/backend/internal/service"
	"github.com/jpcaldeira/travel-desk/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Metrics ----------------------------------------------------------
	metrics.Register()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Notification pipeline --------------------------------------------
	// Redis-backed when configured (durable, shared between processes),
	// in-memory channel queue otherwise.
	var queue notify.Queue
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		queue = notify.NewRedisQueue(client, cfg.NotifyQueueKey)
		slog.Info("redis notification queue enabled", "addr", cfg.RedisAddr)
	} else {
		queue = notify.NewChanQueue(256)
		slog.Info("in-memory notification queue enabled")
	}

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.SMTPAddr != "" {
		sender = notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
		slog.Info("smtp notifications enabled", "addr", cfg.SMTPAddr)
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker := notify.NewWorker(queue, sender, notify.DefaultRetryPolicy(), logger)
	go worker.Run(workerCtx)

	// --- Services and handlers --------------------------------------------
	requests := repo.NewTravelRequestRepo(pool)
	requestSvc := service.NewTravelRequestService(requests, queue)
	exportSvc := service.NewExportService(requests)
	srv := handler.NewServer(requestSvc, exportSvc)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → logger/metrics → Recoverer →
	// CORS → body size cap. The identity check is applied per-route inside
	// handler.Routes so /healthz and /metrics stay open.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, give in-flight requests up to
	// 15 seconds to complete, then stop the notification worker.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	stopWorker()
	slog.Info("server stopped")
}

// runMigrations applies any pending goose migrations from the embedded FS.
// goose needs database/sql, so a short-lived connection is opened beside the
// pgx pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	if len(results) > 0 {
		slog.Info("migrations applied", "count", len(results))
	}
	return nil
}
