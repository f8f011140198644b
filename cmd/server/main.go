package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/server"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(),
		dbLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	// Blob storage
	blobs, staticDir, err := newBlobStorage(cfg)
	if err != nil {
		slog.Error("blob storage setup failed", "driver", cfg.BlobDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("blob storage ready", "driver", cfg.BlobDriver)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app, err := server.New(server.Deps{
		Config:    cfg,
		DB:        database.DB,
		Blobs:     blobs,
		StaticDir: staticDir,
	})
	if err != nil {
		slog.Error("server setup failed", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// newBlobStorage returns the configured backend and, for the local driver,
// the directory to serve under /uploads.
func newBlobStorage(cfg *config.Config) (blob.Storage, string, error) {
	switch cfg.BlobDriver {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s3, err := blob.NewS3Storage(ctx, blob.S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretAccessKey,
			Endpoint:       cfg.S3Endpoint,
			BaseURL:        cfg.BlobBaseURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
			UploadTimeout:  cfg.UploadTimeout,
		})
		return s3, "", err
	default:
		baseURL := cfg.BlobBaseURL
		if baseURL == "" {
			baseURL = "/uploads/"
		}
		local, err := blob.NewLocalStorage(cfg.BlobLocalDir, baseURL, cfg.UploadTimeout)
		if err != nil {
			return nil, "", err
		}
		return local, local.Dir(), nil
	}
}
