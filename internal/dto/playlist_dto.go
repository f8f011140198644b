package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/google/uuid"
)

type CreatePlaylistRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

type UpdatePlaylistRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
}

type PlaylistResponse struct {
	ID          uuid.UUID `json:"_id"`
	Owner       uuid.UUID `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewPlaylistResponse(p *models.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:          p.ID,
		Owner:       p.OwnerID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type PlaylistSummaryResponse struct {
	PlaylistResponse
	TotalVideos int64 `json:"totalVideos"`
}

func NewPlaylistSummariesResponse(summaries []services.PlaylistSummary) []PlaylistSummaryResponse {
	out := make([]PlaylistSummaryResponse, 0, len(summaries))
	for i := range summaries {
		out = append(out, PlaylistSummaryResponse{
			PlaylistResponse: NewPlaylistResponse(&summaries[i].Playlist),
			TotalVideos:      summaries[i].VideoCount,
		})
	}
	return out
}

type PlaylistDetailResponse struct {
	PlaylistResponse
	Owner  OwnerResponse   `json:"owner"`
	Videos []VideoResponse `json:"videos"`
}

func NewPlaylistDetailResponse(d *services.PlaylistDetail) PlaylistDetailResponse {
	videos := make([]VideoResponse, 0, len(d.Videos))
	for i := range d.Videos {
		videos = append(videos, NewVideoResponse(&d.Videos[i]))
	}
	return PlaylistDetailResponse{
		PlaylistResponse: NewPlaylistResponse(&d.Playlist),
		Owner:            newOwnerResponse(d.Owner),
		Videos:           videos,
	}
}

type PlaylistVideoResponse struct {
	PlaylistID uuid.UUID `json:"playlistId"`
	VideoID    uuid.UUID `json:"videoId"`
	Changed    bool      `json:"changed"`
}
