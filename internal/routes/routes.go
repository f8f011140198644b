package routes

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Subscriptions *handlers.SubscriptionHandler
	Videos        *handlers.VideoHandler
	Tweets        *handlers.TweetHandler
	Playlists     *handlers.PlaylistHandler
	Health        *handlers.HealthHandler
}

// Setup mounts the API under /api/v1. protected is the session middleware
// applied to every route that needs a caller.
func Setup(app *fiber.App, h Handlers, protected fiber.Handler) {
	api := app.Group("/api/v1")

	api.Get("/health", h.Health.Check)

	// Users: public
	users := api.Group("/users")
	users.Post("/register", h.Users.Register)
	users.Post("/login", h.Auth.Login)
	users.Post("/refresh-token", h.Auth.Refresh)

	// Users: protected
	users.Post("/logout", protected, h.Auth.Logout)
	users.Post("/change-password", protected, h.Users.ChangePassword)
	users.Get("/current-user", protected, h.Users.CurrentUser)
	users.Patch("/update-account", protected, h.Users.UpdateAccount)
	users.Patch("/avatar", protected, h.Users.UpdateAvatar)
	users.Patch("/cover-image", protected, h.Users.UpdateCoverImage)
	users.Get("/c/:identifier", protected, h.Users.ChannelProfile)
	users.Get("/history", protected, h.Users.WatchHistory)

	subs := api.Group("/subscriptions", protected)
	subs.Post("/c/:channelId", h.Subscriptions.Toggle)
	subs.Get("/c/:channelId/subscribers", h.Subscriptions.Subscribers)
	subs.Get("/u/:subscriberId/channels", h.Subscriptions.Channels)
	subs.Get("/subscribers", h.Subscriptions.Subscribers)
	subs.Get("/channels", h.Subscriptions.Channels)

	videos := api.Group("/videos", protected)
	videos.Get("/", h.Videos.List)
	videos.Post("/", h.Videos.Publish)
	videos.Get("/:videoId", h.Videos.Get)
	videos.Patch("/:videoId", h.Videos.Update)
	videos.Delete("/:videoId", h.Videos.Delete)
	videos.Patch("/:videoId/toggle-publish", h.Videos.TogglePublish)
	videos.Post("/:videoId/watch", h.Videos.Watch)

	tweets := api.Group("/tweets", protected)
	tweets.Get("/", h.Tweets.List)
	tweets.Post("/", h.Tweets.Create)
	tweets.Get("/user/:userId", h.Tweets.ListByUser)
	tweets.Patch("/:tweetId", h.Tweets.Update)
	tweets.Delete("/:tweetId", h.Tweets.Delete)

	playlists := api.Group("/playlist", protected)
	playlists.Post("/", h.Playlists.Create)
	playlists.Get("/user/:userId", h.Playlists.ListByUser)
	playlists.Get("/:playlistId", h.Playlists.Get)
	playlists.Patch("/:playlistId", h.Playlists.Update)
	playlists.Delete("/:playlistId", h.Playlists.Delete)
	playlists.Patch("/:playlistId/videos/:videoId", h.Playlists.AddVideo)
	playlists.Delete("/:playlistId/videos/:videoId", h.Playlists.RemoveVideo)
}
