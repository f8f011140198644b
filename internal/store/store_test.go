package store_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/testutil"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@x.com",
		FullName: "User " + username,
		Password: "not-a-real-hash",
		Avatar:   "https://cdn.example.com/" + username + ".png",
	}
	require.NoError(t, store.NewUserStore(db).Create(context.Background(), u))
	return u
}

func seedVideo(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, published bool) *models.Video {
	t.Helper()
	v := &models.Video{
		OwnerID:     owner,
		VideoFile:   "https://cdn.example.com/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		Title:       title,
		Description: "about " + title,
		Duration:    float64(len(title)),
		IsPublished: published,
	}
	require.NoError(t, store.NewVideoStore(db).Create(context.Background(), v))
	return v
}

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	assert.NotEqual(t, uuid.Nil, alice.ID)

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Nil(t, got.RefreshToken)

	got, err = users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)

	t.Run("duplicate username", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Username: "alice", Email: "other@x.com", FullName: "A", Password: "h", Avatar: "a"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Username: "alice2", Email: "alice@x.com", FullName: "A", Password: "h", Avatar: "a"})
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestUserStore_PasswordHashedOncePerChange(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()

	u := &models.User{Username: "bob", Email: "bob@x.com", FullName: "Bob", Avatar: "a"}
	u.SetPassword("first-password")
	require.NoError(t, users.Create(ctx, u))

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, security.VerifyPassword("first-password", stored.Password))
	firstHash := stored.Password

	stored.FullName = "Bobby"
	require.NoError(t, users.Save(ctx, stored))
	stored, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, firstHash, stored.Password, "saving without a password change must not re-hash")

	stored.SetPassword("second-password")
	require.NoError(t, users.Save(ctx, stored))
	stored, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, security.VerifyPassword("second-password", stored.Password))
	assert.False(t, security.VerifyPassword("first-password", stored.Password))
}

func TestUserStore_FindByLogin(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	got, err := users.FindByLogin(ctx, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.FindByLogin(ctx, "", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.FindByLogin(ctx, "nobody", "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.FindByLogin(ctx, "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = users.FindByLogin(ctx, "nobody", "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	exists, err := users.ExistsByUsernameOrEmail(ctx, "zed", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = users.ExistsByUsernameOrEmail(ctx, "zed", "zed@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserStore_RefreshTokenCompareAndSwap(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	require.NoError(t, users.SetRefreshToken(ctx, alice.ID, "t1"))

	swapped, err := users.SwapRefreshToken(ctx, alice.ID, "t1", "t2")
	require.NoError(t, err)
	assert.True(t, swapped)

	swapped, err = users.SwapRefreshToken(ctx, alice.ID, "t1", "t3")
	require.NoError(t, err)
	assert.False(t, swapped, "a superseded token must not swap")

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "t2", *got.RefreshToken)

	require.NoError(t, users.ClearRefreshToken(ctx, alice.ID))
	got, err = users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RefreshToken)

	swapped, err = users.SwapRefreshToken(ctx, alice.ID, "t2", "t4")
	require.NoError(t, err)
	assert.False(t, swapped, "a revoked token must not swap")

	assert.ErrorIs(t, users.SetRefreshToken(ctx, uuid.New(), "t"), store.ErrNotFound)
}

func TestUserStore_UpdateFieldsAndListByIDs(t *testing.T) {
	db := testutil.NewDB(t)
	users := store.NewUserStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	updated, err := users.UpdateFields(ctx, alice.ID, map[string]interface{}{"full_name": "Alice Liddell"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.FullName)

	_, err = users.UpdateFields(ctx, uuid.New(), map[string]interface{}{"full_name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := users.ListByIDs(ctx, []uuid.UUID{alice.ID, bob.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = users.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubscriptionStore(t *testing.T) {
	db := testutil.NewDB(t)
	subs := store.NewSubscriptionStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	inserted, err := subs.Insert(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = subs.Insert(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, inserted, "the pair is unique")

	_, err = subs.Insert(ctx, carol.ID, bob.ID)
	require.NoError(t, err)
	_, err = subs.Insert(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	n, err := subs.CountSubscribers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = subs.CountSubscriptions(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := subs.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = subs.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	deleted, err := subs.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = subs.Delete(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	n, err = subs.CountSubscribers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWatchHistoryStore(t *testing.T) {
	db := testutil.NewDB(t)
	history := store.NewWatchHistoryStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	v1 := seedVideo(t, db, alice.ID, "one", true)
	v2 := seedVideo(t, db, alice.ID, "two", true)
	v3 := seedVideo(t, db, alice.ID, "three", true)

	for _, id := range []uuid.UUID{v2.ID, v1.ID, v2.ID, v3.ID, v1.ID} {
		_, err := history.Add(ctx, alice.ID, id)
		require.NoError(t, err)
	}

	ids, err := history.VideoIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{v2.ID, v1.ID, v3.ID}, ids)

	added, err := history.Add(ctx, alice.ID, v3.ID)
	require.NoError(t, err)
	assert.False(t, added)

	ids, err = history.VideoIDs(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWatchHistoryStore_ConcurrentAdds(t *testing.T) {
	db := testutil.NewDB(t)
	history := store.NewWatchHistoryStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	video := seedVideo(t, db, alice.ID, "one", true)

	const workers = 8
	var (
		wg       sync.WaitGroup
		inserted atomic.Int32
		failed   atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := history.Add(ctx, alice.ID, video.ID)
			if err != nil {
				failed.Add(1)
				return
			}
			if added {
				inserted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failed.Load())
	assert.Equal(t, int32(1), inserted.Load())
	ids, err := history.VideoIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{video.ID}, ids)
}

func TestVideoStore_List(t *testing.T) {
	db := testutil.NewDB(t)
	videos := store.NewVideoStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	for i := 0; i < 5; i++ {
		seedVideo(t, db, alice.ID, fmt.Sprintf("Go tutorial %d", i), true)
		time.Sleep(2 * time.Millisecond)
	}
	seedVideo(t, db, bob.ID, "Cooking 100%", true)
	seedVideo(t, db, bob.ID, "Draft go notes", false)

	list, total, err := videos.List(ctx, store.VideoFilter{PublishedOnly: true, Limit: 2, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Cooking 100%", list[0].Title)

	list, total, err = videos.List(ctx, store.VideoFilter{PublishedOnly: true, TitleContains: "GO", SortBy: "title"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, "Go tutorial 0", list[0].Title)

	list, total, err = videos.List(ctx, store.VideoFilter{TitleContains: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "LIKE wildcards in the query are matched literally")
	assert.Equal(t, "Cooking 100%", list[0].Title)

	_, total, err = videos.List(ctx, store.VideoFilter{OwnerID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, _, err = videos.List(ctx, store.VideoFilter{PublishedOnly: true, Limit: 2, Offset: 4, SortBy: "created_at"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestVideoStore_ToggleAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	videos := store.NewVideoStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	v := seedVideo(t, db, alice.ID, "clip", true)

	toggled, err := videos.TogglePublished(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	toggled, err = videos.TogglePublished(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsPublished)

	require.NoError(t, videos.Delete(ctx, v.ID))
	_, err = videos.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, videos.Delete(ctx, v.ID), store.ErrNotFound)
}

func TestTweetStore(t *testing.T) {
	db := testutil.NewDB(t)
	tweets := store.NewTweetStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	var posted []*models.Tweet
	for i, owner := range []uuid.UUID{alice.ID, bob.ID, alice.ID} {
		tw := &models.Tweet{OwnerID: owner, Content: fmt.Sprintf("tweet %d", i)}
		require.NoError(t, tweets.Create(ctx, tw))
		posted = append(posted, tw)
		time.Sleep(2 * time.Millisecond)
	}

	all, total, err := tweets.List(ctx, uuid.Nil, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, posted[2].ID, all[0].ID)
	assert.Equal(t, posted[1].ID, all[1].ID)

	mine, total, err := tweets.List(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 2)
	assert.Equal(t, posted[0].ID, mine[1].ID)

	t.Run("update is scoped to the owner", func(t *testing.T) {
		_, err := tweets.UpdateContent(ctx, posted[0].ID, bob.ID, "nope")
		assert.ErrorIs(t, err, store.ErrNotFound)

		updated, err := tweets.UpdateContent(ctx, posted[0].ID, alice.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		assert.ErrorIs(t, tweets.Delete(ctx, posted[1].ID, alice.ID), store.ErrNotFound)
		require.NoError(t, tweets.Delete(ctx, posted[1].ID, bob.ID))
		_, err := tweets.GetByID(ctx, posted[1].ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPlaylistStore(t *testing.T) {
	db := testutil.NewDB(t)
	playlists := store.NewPlaylistStore(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	one := seedVideo(t, db, alice.ID, "one", true)
	two := seedVideo(t, db, alice.ID, "two", true)

	mix := &models.Playlist{OwnerID: alice.ID, Name: "mix", Description: "d"}
	empty := &models.Playlist{OwnerID: alice.ID, Name: "empty", Description: "d"}
	require.NoError(t, playlists.Create(ctx, mix))
	require.NoError(t, playlists.Create(ctx, empty))

	for _, id := range []uuid.UUID{two.ID, one.ID} {
		added, err := playlists.AddVideo(ctx, mix.ID, id)
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := playlists.AddVideo(ctx, mix.ID, two.ID)
	require.NoError(t, err)
	assert.False(t, added)

	ids, err := playlists.VideoIDs(ctx, mix.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{two.ID, one.ID}, ids)

	counts, err := playlists.CountVideos(ctx, []uuid.UUID{mix.ID, empty.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[mix.ID])
	assert.Zero(t, counts[empty.ID])

	owned, err := playlists.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	updated, err := playlists.UpdateFields(ctx, mix.ID, map[string]interface{}{"name": "remix"})
	require.NoError(t, err)
	assert.Equal(t, "remix", updated.Name)

	removed, err := playlists.RemoveVideo(ctx, mix.ID, two.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = playlists.RemoveVideo(ctx, mix.ID, two.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, playlists.Delete(ctx, mix.ID))
	_, err = playlists.GetByID(ctx, mix.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	ids, err = playlists.VideoIDs(ctx, mix.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.ErrorIs(t, playlists.Delete(ctx, mix.ID), store.ErrNotFound)
}
