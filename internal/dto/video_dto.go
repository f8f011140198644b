package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/google/uuid"
)

type VideoResponse struct {
	ID          uuid.UUID `json:"_id"`
	Owner       uuid.UUID `json:"owner"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    float64   `json:"duration"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewVideoResponse(v *models.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Owner:       v.OwnerID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type OwnerResponse struct {
	ID       uuid.UUID `json:"_id"`
	FullName string    `json:"fullName"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar"`
}

func newOwnerResponse(o services.OwnerSummary) OwnerResponse {
	return OwnerResponse{ID: o.ID, FullName: o.FullName, Username: o.Username, Avatar: o.Avatar}
}

// HistoryEntryResponse is a watched video with its owner inlined.
type HistoryEntryResponse struct {
	VideoResponse
	Owner OwnerResponse `json:"owner"`
}

func NewHistoryResponse(entries []services.VideoWithOwner) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, HistoryEntryResponse{
			VideoResponse: NewVideoResponse(&e.Video),
			Owner:         newOwnerResponse(e.Owner),
		})
	}
	return out
}

type VideoPageResponse struct {
	Videos      []VideoResponse `json:"videos"`
	Page        int             `json:"page"`
	Limit       int             `json:"limit"`
	TotalVideos int64           `json:"totalVideos"`
	TotalPages  int             `json:"totalPages"`
	HasNextPage bool            `json:"hasNextPage"`
	HasPrevPage bool            `json:"hasPrevPage"`
}

func NewVideoPageResponse(p *services.VideoPage) VideoPageResponse {
	videos := make([]VideoResponse, 0, len(p.Videos))
	for i := range p.Videos {
		videos = append(videos, NewVideoResponse(&p.Videos[i]))
	}
	return VideoPageResponse{
		Videos:      videos,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalVideos: p.TotalVideos,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}

type UpdateVideoRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
}

type WatchResponse struct {
	VideoID uuid.UUID `json:"videoId"`
	Added   bool      `json:"added"`
}
