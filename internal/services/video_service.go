package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

var videoSortFields = map[string]string{
	"createdAt": "created_at",
	"duration":  "duration",
	"title":     "title",
}

type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *multipart.FileHeader
	Thumbnail   *multipart.FileHeader
}

// UpdateVideoInput fields left nil are not changed.
type UpdateVideoInput struct {
	Title       *string
	Description *string
	Thumbnail   *multipart.FileHeader
}

type ListVideosInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string // createdAt, duration or title
	SortType string // asc or desc
	OwnerID  uuid.UUID
}

type VideoPage struct {
	Videos      []models.Video
	Page        int
	Limit       int
	TotalVideos int64
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

type VideoService struct {
	videos *store.VideoStore
	blobs  blob.Storage
}

func NewVideoService(videos *store.VideoStore, blobs blob.Storage) *VideoService {
	return &VideoService{videos: videos, blobs: blobs}
}

func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}
	if in.Duration < 0 {
		return nil, ErrInvalidDuration
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, ErrVideoFileRequired
	}
	if !blob.IsVideo(in.VideoFile) || !blob.IsImage(in.Thumbnail) {
		return nil, ErrUnsupportedFileType
	}

	up := &uploader{storage: s.blobs}
	file, err := up.upload(ctx, "videos", in.VideoFile)
	if err != nil {
		return nil, err
	}
	thumb, err := up.upload(ctx, "thumbnails", in.Thumbnail)
	if err != nil {
		up.rollback(ctx)
		return nil, err
	}

	video := &models.Video{
		OwnerID:     ownerID,
		VideoFile:   file.URL,
		VideoKey:    file.Key,
		Thumbnail:   thumb.URL,
		ThumbKey:    thumb.Key,
		Title:       title,
		Description: description,
		Duration:    in.Duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		up.rollback(ctx)
		return nil, internal("create video", err)
	}
	return video, nil
}

// List returns published videos. A caller listing their own channel also
// sees their unpublished videos.
func (s *VideoService) List(ctx context.Context, callerID uuid.UUID, in ListVideosInput) (*VideoPage, error) {
	page, limit := normalizePage(in.Page, in.Limit)

	sortBy := "created_at"
	if in.SortBy != "" {
		column, ok := videoSortFields[in.SortBy]
		if !ok {
			return nil, newError(ErrInvalidArgument, "sortBy must be one of createdAt, duration, title")
		}
		sortBy = column
	}

	filter := store.VideoFilter{
		OwnerID:       in.OwnerID,
		TitleContains: strings.TrimSpace(in.Query),
		PublishedOnly: in.OwnerID == uuid.Nil || in.OwnerID != callerID,
		SortBy:        sortBy,
		Descending:    !strings.EqualFold(in.SortType, "asc"),
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}
	videos, total, err := s.videos.List(ctx, filter)
	if err != nil {
		return nil, internal("list videos", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}

	totalPages := pageCount(total, limit)
	return &VideoPage{
		Videos:      videos,
		Page:        page,
		Limit:       limit,
		TotalVideos: total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// Get hides unpublished videos from everyone but their owner.
func (s *VideoService) Get(ctx context.Context, callerID, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != callerID {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, callerID, videoID uuid.UUID, in UpdateVideoInput) (*models.Video, error) {
	fields := make(map[string]interface{})
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, ErrMissingFields
		}
		fields["title"] = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, ErrMissingFields
		}
		fields["description"] = description
	}
	if len(fields) == 0 && in.Thumbnail == nil {
		return nil, ErrMissingFields
	}
	if in.Thumbnail != nil && !blob.IsImage(in.Thumbnail) {
		return nil, ErrUnsupportedFileType
	}

	current, err := s.owned(ctx, callerID, videoID)
	if err != nil {
		return nil, err
	}

	up := &uploader{storage: s.blobs}
	if in.Thumbnail != nil {
		thumb, err := up.upload(ctx, "thumbnails", in.Thumbnail)
		if err != nil {
			return nil, err
		}
		fields["thumbnail"] = thumb.URL
		fields["thumb_key"] = thumb.Key
	}

	video, err := s.videos.UpdateFields(ctx, videoID, fields)
	if err != nil {
		up.rollback(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, internal("update video", err)
	}
	if in.Thumbnail != nil {
		discard(ctx, s.blobs, current.ThumbKey)
	}
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, callerID, videoID uuid.UUID) error {
	video, err := s.owned(ctx, callerID, videoID)
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVideoNotFound
		}
		return internal("delete video", err)
	}
	discard(ctx, s.blobs, video.VideoKey, video.ThumbKey)
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, callerID, videoID uuid.UUID) (*models.Video, error) {
	if _, err := s.owned(ctx, callerID, videoID); err != nil {
		return nil, err
	}
	video, err := s.videos.TogglePublished(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, internal("toggle publish", err)
	}
	return video, nil
}

func (s *VideoService) owned(ctx context.Context, callerID, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != callerID {
		if !video.IsPublished {
			return nil, ErrVideoNotFound
		}
		return nil, ErrNotVideoOwner
	}
	return video, nil
}

func (s *VideoService) load(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, internal("load video", err)
	}
	return video, nil
}
