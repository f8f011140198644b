package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

type PlaylistSummary struct {
	Playlist   models.Playlist
	VideoCount int64
}

// PlaylistDetail is a playlist with its owner and the videos the caller may
// see, in playlist order.
type PlaylistDetail struct {
	Playlist models.Playlist
	Owner    OwnerSummary
	Videos   []models.Video
}

// UpdatePlaylistInput fields left nil are not changed.
type UpdatePlaylistInput struct {
	Name        *string
	Description *string
}

type PlaylistService struct {
	users     *store.UserStore
	videos    *store.VideoStore
	playlists *store.PlaylistStore
}

func NewPlaylistService(users *store.UserStore, videos *store.VideoStore, playlists *store.PlaylistStore) *PlaylistService {
	return &PlaylistService{users: users, videos: videos, playlists: playlists}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, ErrMissingFields
	}
	playlist := &models.Playlist{OwnerID: ownerID, Name: name, Description: description}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		return nil, internal("create playlist", err)
	}
	return playlist, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, userID uuid.UUID) ([]PlaylistSummary, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, internal("check user", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	playlists, err := s.playlists.ListByOwner(ctx, userID)
	if err != nil {
		return nil, internal("list playlists", err)
	}
	ids := make([]uuid.UUID, 0, len(playlists))
	for _, p := range playlists {
		ids = append(ids, p.ID)
	}
	counts, err := s.playlists.CountVideos(ctx, ids)
	if err != nil {
		return nil, internal("count playlist videos", err)
	}

	out := make([]PlaylistSummary, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, PlaylistSummary{Playlist: p, VideoCount: counts[p.ID]})
	}
	return out, nil
}

// Get resolves the playlist's videos with a batch fetch. Videos that were
// deleted, or unpublished by someone other than the caller, are left out.
func (s *PlaylistService) Get(ctx context.Context, callerID, playlistID uuid.UUID) (*PlaylistDetail, error) {
	playlist, err := s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	ids, err := s.playlists.VideoIDs(ctx, playlistID)
	if err != nil {
		return nil, internal("load playlist videos", err)
	}
	videos, err := s.videos.ListByIDs(ctx, ids)
	if err != nil {
		return nil, internal("load playlist videos", err)
	}
	byID := make(map[uuid.UUID]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	ordered := make([]models.Video, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok || (!v.IsPublished && v.OwnerID != callerID) {
			continue
		}
		ordered = append(ordered, v)
	}

	owners, err := loadOwners(ctx, s.users, []uuid.UUID{playlist.OwnerID})
	if err != nil {
		return nil, err
	}
	return &PlaylistDetail{Playlist: *playlist, Owner: owners[playlist.OwnerID], Videos: ordered}, nil
}

func (s *PlaylistService) Update(ctx context.Context, callerID, playlistID uuid.UUID, in UpdatePlaylistInput) (*models.Playlist, error) {
	fields := make(map[string]interface{})
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		fields["name"] = name
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, ErrMissingFields
		}
		fields["description"] = description
	}
	if len(fields) == 0 {
		return nil, ErrMissingFields
	}
	if _, err := s.owned(ctx, callerID, playlistID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.UpdateFields(ctx, playlistID, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, internal("update playlist", err)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, callerID, playlistID uuid.UUID) error {
	if _, err := s.owned(ctx, callerID, playlistID); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, playlistID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPlaylistNotFound
		}
		return internal("delete playlist", err)
	}
	return nil
}

// AddVideo puts a video the caller can see at the end of their playlist.
// Adding a video twice is a no-op; the result reports whether it was added.
func (s *PlaylistService) AddVideo(ctx context.Context, callerID, playlistID, videoID uuid.UUID) (bool, error) {
	if _, err := s.owned(ctx, callerID, playlistID); err != nil {
		return false, err
	}
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrVideoNotFound
		}
		return false, internal("load video", err)
	}
	if !video.IsPublished && video.OwnerID != callerID {
		return false, ErrVideoNotFound
	}
	added, err := s.playlists.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		return false, internal("add playlist video", err)
	}
	return added, nil
}

// RemoveVideo reports whether the video was in the playlist.
func (s *PlaylistService) RemoveVideo(ctx context.Context, callerID, playlistID, videoID uuid.UUID) (bool, error) {
	if _, err := s.owned(ctx, callerID, playlistID); err != nil {
		return false, err
	}
	removed, err := s.playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return false, internal("remove playlist video", err)
	}
	return removed, nil
}

func (s *PlaylistService) owned(ctx context.Context, callerID, playlistID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerID != callerID {
		return nil, ErrNotPlaylistOwner
	}
	return playlist, nil
}

func (s *PlaylistService) load(ctx context.Context, playlistID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.playlists.GetByID(ctx, playlistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, internal("load playlist", err)
	}
	return playlist, nil
}
