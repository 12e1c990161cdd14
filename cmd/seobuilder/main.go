// Package main is the entry point for the seobuilder API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"seobuilder/internal/archetype"
	"seobuilder/internal/auth"
	"seobuilder/internal/builder"
	"seobuilder/internal/cache"
	"seobuilder/internal/config"
	"seobuilder/internal/database"
	"seobuilder/internal/export"
	"seobuilder/internal/handlers"
	"seobuilder/internal/router"
	"seobuilder/internal/storage"
	"seobuilder/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible token + idempotency store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	tokenStore := auth.NewTokenStore(valkeyClient)
	idempotency := cache.NewIdempotency(valkeyClient)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	projectStore := store.NewProjectStore(db)
	pageStore := store.NewPageStore(db)
	exportStore := store.NewExportStore(db)

	// Pick the artifact disk: S3-compatible object storage when configured,
	// local filesystem otherwise.
	var disk storage.Disk
	s3Disk, err := storage.NewS3Disk(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3ExportsBucket,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if s3Disk != nil {
		disk = s3Disk
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3ExportsBucket,
		)
	} else {
		local, err := storage.NewLocalDisk(cfg.StorageDir)
		if err != nil {
			slog.Error("failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		disk = local
		slog.Info("local storage initialized", "dir", cfg.StorageDir)
	}

	// Core domain services.
	catalog := archetype.NewCatalog()
	creator := builder.NewCreator(pageStore)
	applier := archetype.NewApplier(catalog, creator, idempotency)
	packager := export.NewPackager(disk)
	exportService := export.NewService(exportStore, pageStore, packager, disk)

	// Hourly sweep of expired export artifacts.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		n, err := exportService.SweepExpired(ctx)
		if err != nil {
			slog.Error("export sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("expired exports swept", "deleted", n)
		}
	}); err != nil {
		slog.Error("failed to schedule export sweep", "error", err)
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokenStore)
	projectHandlers := handlers.NewProjects(projectStore, catalog, applier)
	pageHandlers := handlers.NewPages(projectHandlers, pageStore, creator)
	exportHandlers := handlers.NewExports(projectHandlers, exportStore, exportService)

	// Set up the Chi router with all middleware and routes.
	r := router.New(tokenStore, authHandlers, projectHandlers, pageHandlers, exportHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate export downloads streaming from object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Let in-flight export packaging finish before exiting.
	exportService.Wait()

	slog.Info("server stopped gracefully")
}
