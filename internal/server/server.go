// Package server assembles the fiber application: stores, services,
// handlers, middleware and routes.
package server

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Blobs  blob.Storage

	// StaticDir, when set, is served under /uploads for the local blob backend.
	StaticDir string
	// AccessLog receives one line per request. Defaults to stdout.
	AccessLog io.Writer
}

func New(d Deps) (*fiber.App, error) {
	cfg := d.Config
	if cfg == nil || d.DB == nil || d.Blobs == nil {
		return nil, errors.New("server: config, db and blob storage are required")
	}

	signer, err := security.NewTokenSigner(security.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		AccessTTL:     cfg.AccessTokenExpiry,
		RefreshSecret: cfg.RefreshTokenSecret,
		RefreshTTL:    cfg.RefreshTokenExpiry,
		Issuer:        "vidtube",
	})
	if err != nil {
		return nil, err
	}

	// Stores
	userStore := store.NewUserStore(d.DB)
	subStore := store.NewSubscriptionStore(d.DB)
	videoStore := store.NewVideoStore(d.DB)
	historyStore := store.NewWatchHistoryStore(d.DB)
	tweetStore := store.NewTweetStore(d.DB)
	playlistStore := store.NewPlaylistStore(d.DB)

	// Services
	authService := services.NewAuthService(userStore, signer)
	userService := services.NewUserService(userStore, d.Blobs)
	subscriptionService := services.NewSubscriptionService(userStore, subStore)
	channelService := services.NewChannelService(userStore, subscriptionService)
	historyService := services.NewHistoryService(userStore, videoStore, historyStore)
	videoService := services.NewVideoService(videoStore, d.Blobs)
	tweetService := services.NewTweetService(userStore, tweetStore)
	playlistService := services.NewPlaylistService(userStore, videoStore, playlistStore)

	backend := "local"
	if _, ok := d.Blobs.(*blob.S3Storage); ok {
		backend = "s3"
	}

	h := routes.Handlers{
		Auth: handlers.NewAuthHandler(authService, handlers.CookieOptions{
			Secure:     cfg.CookieSecure,
			AccessTTL:  signer.AccessTTL(),
			RefreshTTL: signer.RefreshTTL(),
		}),
		Users:         handlers.NewUserHandler(userService, channelService, historyService),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptionService),
		Videos:        handlers.NewVideoHandler(videoService, historyService),
		Tweets:        handlers.NewTweetHandler(tweetService),
		Playlists:     handlers.NewPlaylistHandler(playlistService),
		Health:        handlers.NewHealthHandler(pinger(d.DB), backend),
	}

	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 200
	}
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())

	accessLog := d.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		Output: accessLog,
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	if d.StaticDir != "" {
		app.Static("/uploads", d.StaticDir, fiber.Static{
			ModifyResponse: func(c *fiber.Ctx) error {
				c.Set("Content-Security-Policy", "default-src 'none'; sandbox")
				return nil
			},
		})
	}

	routes.Setup(app, h, middleware.Authenticate(signer, authService))
	return app, nil
}

func pinger(db *gorm.DB) handlers.Pinger {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
