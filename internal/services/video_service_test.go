package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/testutil"
)

func TestVideoService_PublishValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")

	videoFile := testutil.FileHeader(t, "videoFile", "v.mp4", "video/mp4", testutil.MP4)
	thumb := testutil.FileHeader(t, "thumbnail", "t.jpg", "image/jpeg", testutil.JPEG)

	_, err := f.videoSvc.Publish(ctx, bob.ID, services.PublishVideoInput{Title: "t", Description: "", VideoFile: videoFile, Thumbnail: thumb})
	assert.ErrorIs(t, err, services.ErrMissingFields)

	_, err = f.videoSvc.Publish(ctx, bob.ID, services.PublishVideoInput{Title: "t", Description: "d", VideoFile: videoFile})
	assert.ErrorIs(t, err, services.ErrVideoFileRequired)

	_, err = f.videoSvc.Publish(ctx, bob.ID, services.PublishVideoInput{Title: "t", Description: "d", VideoFile: thumb, Thumbnail: thumb})
	assert.ErrorIs(t, err, services.ErrUnsupportedFileType)

	_, err = f.videoSvc.Publish(ctx, bob.ID, services.PublishVideoInput{Title: "t", Description: "d", Duration: -1, VideoFile: videoFile, Thumbnail: thumb})
	assert.ErrorIs(t, err, services.ErrInvalidDuration)

	video := f.publish(t, bob, "intro")
	assert.True(t, video.IsPublished)
	assert.Equal(t, bob.ID, video.OwnerID)
	assert.Equal(t, 12.5, video.Duration)
}

func TestVideoService_ListPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")

	for i := 0; i < 5; i++ {
		f.publish(t, bob, fmt.Sprintf("video-%d", i))
	}
	draft := f.publish(t, bob, "draft")
	_, err := f.videoSvc.TogglePublish(ctx, bob.ID, draft.ID)
	require.NoError(t, err)

	page, err := f.videoSvc.List(ctx, alice.ID, services.ListVideosInput{Page: 2, Limit: 2, SortBy: "title", SortType: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalVideos)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
	require.Len(t, page.Videos, 2)
	assert.Equal(t, "video-2", page.Videos[0].Title)
	assert.Equal(t, "video-3", page.Videos[1].Title)

	own, err := f.videoSvc.List(ctx, bob.ID, services.ListVideosInput{OwnerID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(6), own.TotalVideos, "owners see their drafts")

	empty, err := f.videoSvc.List(ctx, alice.ID, services.ListVideosInput{Query: "nothing matches"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Videos)
	assert.Empty(t, empty.Videos)
	assert.False(t, empty.HasNextPage)

	_, err = f.videoSvc.List(ctx, alice.ID, services.ListVideosInput{SortBy: "views"})
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestVideoService_OwnerOnlyMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	video := f.publish(t, bob, "intro")

	title := "Hijacked"
	_, err := f.videoSvc.Update(ctx, alice.ID, video.ID, services.UpdateVideoInput{Title: &title})
	assert.ErrorIs(t, err, services.ErrNotVideoOwner)
	assert.ErrorIs(t, err, services.ErrForbidden)

	assert.ErrorIs(t, f.videoSvc.Delete(ctx, alice.ID, video.ID), services.ErrForbidden)

	_, err = f.videoSvc.TogglePublish(ctx, alice.ID, video.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	title = "Welcome"
	updated, err := f.videoSvc.Update(ctx, bob.ID, video.ID, services.UpdateVideoInput{
		Title:     &title,
		Thumbnail: testutil.FileHeader(t, "thumbnail", "n.png", "image/png", testutil.PNG),
	})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", updated.Title)
	assert.NotEqual(t, video.Thumbnail, updated.Thumbnail)
	f.blobs.AssertCalled(t, "Delete", mock.Anything, video.ThumbKey)

	_, err = f.videoSvc.Update(ctx, bob.ID, video.ID, services.UpdateVideoInput{})
	assert.ErrorIs(t, err, services.ErrMissingFields)

	toggled, err := f.videoSvc.TogglePublish(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)

	_, err = f.videoSvc.Get(ctx, alice.ID, video.ID)
	assert.ErrorIs(t, err, services.ErrVideoNotFound)

	got, err := f.videoSvc.Get(ctx, bob.ID, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.ID, got.ID)

	require.NoError(t, f.videoSvc.Delete(ctx, bob.ID, video.ID))
	f.blobs.AssertCalled(t, "Delete", mock.Anything, video.VideoKey)
	f.blobs.AssertCalled(t, "Delete", mock.Anything, updated.ThumbKey)
	_, err = f.videoSvc.Get(ctx, bob.ID, video.ID)
	assert.ErrorIs(t, err, services.ErrVideoNotFound)

	assert.ErrorIs(t, f.videoSvc.Delete(ctx, bob.ID, uuid.New()), services.ErrNotFound)
}
