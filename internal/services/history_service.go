package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

type VideoWithOwner struct {
	Video models.Video
	Owner OwnerSummary
}

type HistoryService struct {
	users   *store.UserStore
	videos  *store.VideoStore
	history *store.WatchHistoryStore
}

func NewHistoryService(users *store.UserStore, videos *store.VideoStore, history *store.WatchHistoryStore) *HistoryService {
	return &HistoryService{users: users, videos: videos, history: history}
}

// WatchHistory returns the user's watched videos in first-view order, each
// with its owner's public fields. It is two batch lookups merged in memory.
// Videos that have since been unpublished by someone else are left out.
func (s *HistoryService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]VideoWithOwner, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, internal("check user", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	ids, err := s.history.VideoIDs(ctx, userID)
	if err != nil {
		return nil, internal("load watch history", err)
	}
	if len(ids) == 0 {
		return []VideoWithOwner{}, nil
	}

	videos, err := s.videos.ListByIDs(ctx, ids)
	if err != nil {
		return nil, internal("load history videos", err)
	}
	videoByID := make(map[uuid.UUID]models.Video, len(videos))
	ownerIDs := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		videoByID[v.ID] = v
		ownerIDs = append(ownerIDs, v.OwnerID)
	}

	ownerByID, err := loadOwners(ctx, s.users, distinct(ownerIDs))
	if err != nil {
		return nil, err
	}

	out := make([]VideoWithOwner, 0, len(ids))
	for _, id := range ids {
		v, ok := videoByID[id]
		if !ok || (!v.IsPublished && v.OwnerID != userID) {
			continue
		}
		out = append(out, VideoWithOwner{Video: v, Owner: ownerByID[v.OwnerID]})
	}
	return out, nil
}

// RecordView adds videoID to the user's history if it is not already there.
// It reports whether a new entry was written.
func (s *HistoryService) RecordView(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrVideoNotFound
		}
		return false, internal("load video", err)
	}
	if !video.IsPublished && video.OwnerID != userID {
		return false, ErrVideoNotFound
	}
	added, err := s.history.Add(ctx, userID, videoID)
	if err != nil {
		return false, internal("record view", err)
	}
	return added, nil
}
