package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/testutil"
)

const testPassword = "correct-horse-battery"

type fixture struct {
	db      *gorm.DB
	signer  *security.TokenSigner
	blobs   *testutil.MockStorage
	users   *store.UserStore
	subs    *store.SubscriptionStore
	videos  *store.VideoStore
	history *store.WatchHistoryStore
	tweets  *store.TweetStore
	lists   *store.PlaylistStore

	auth          *services.AuthService
	accounts      *services.UserService
	subscriptions *services.SubscriptionService
	channels      *services.ChannelService
	watch         *services.HistoryService
	videoSvc      *services.VideoService
	tweetSvc      *services.TweetService
	playlistSvc   *services.PlaylistService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	signer, err := security.NewTokenSigner(security.TokenConfig{
		AccessSecret:  "access-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret-for-tests",
		RefreshTTL:    time.Hour,
		Issuer:        "vidtube-test",
	})
	require.NoError(t, err)

	f := &fixture{
		db:      db,
		signer:  signer,
		blobs:   (&testutil.MockStorage{}).AcceptUploads(),
		users:   store.NewUserStore(db),
		subs:    store.NewSubscriptionStore(db),
		videos:  store.NewVideoStore(db),
		history: store.NewWatchHistoryStore(db),
		tweets:  store.NewTweetStore(db),
		lists:   store.NewPlaylistStore(db),
	}
	f.auth = services.NewAuthService(f.users, signer)
	f.accounts = services.NewUserService(f.users, f.blobs)
	f.subscriptions = services.NewSubscriptionService(f.users, f.subs)
	f.channels = services.NewChannelService(f.users, f.subscriptions)
	f.watch = services.NewHistoryService(f.users, f.videos, f.history)
	f.videoSvc = services.NewVideoService(f.videos, f.blobs)
	f.tweetSvc = services.NewTweetService(f.users, f.tweets)
	f.playlistSvc = services.NewPlaylistService(f.users, f.videos, f.lists)
	return f
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.accounts.Register(context.Background(), services.RegisterInput{
		FullName: "User " + username,
		Email:    username + "@x.com",
		Username: username,
		Password: testPassword,
		Avatar:   testutil.FileHeader(t, "avatar", username+".png", "image/png", testutil.PNG),
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) publish(t *testing.T, owner *models.User, title string) *models.Video {
	t.Helper()
	video, err := f.videoSvc.Publish(context.Background(), owner.ID, services.PublishVideoInput{
		Title:       title,
		Description: "about " + title,
		Duration:    12.5,
		VideoFile:   testutil.FileHeader(t, "videoFile", title+".mp4", "video/mp4", testutil.MP4),
		Thumbnail:   testutil.FileHeader(t, "thumbnail", title+".jpg", "image/jpeg", testutil.JPEG),
	})
	require.NoError(t, err)
	return video
}

func (f *fixture) storedRefreshToken(t *testing.T, user *models.User) *string {
	t.Helper()
	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	return stored.RefreshToken
}

// resolve verifies an access token the way the session middleware does and
// loads its principal.
func (f *fixture) resolve(t *testing.T, accessToken string) (*services.Principal, error) {
	t.Helper()
	claims, err := f.signer.ParseAccessToken(accessToken)
	require.NoError(t, err)
	return f.auth.ResolvePrincipal(context.Background(), claims)
}
