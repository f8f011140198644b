package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchHistoryStore struct {
	db *gorm.DB
}

func NewWatchHistoryStore(db *gorm.DB) *WatchHistoryStore {
	return &WatchHistoryStore{db: db}
}

// Add appends videoID to the user's history unless it is already there.
// It reports whether a new entry was written.
func (s *WatchHistoryStore) Add(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	entry := models.WatchHistoryEntry{UserID: userID, VideoID: videoID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		return false, classify(result.Error, "add watch history entry")
	}
	return result.RowsAffected == 1, nil
}

// VideoIDs returns the user's history in first-view order.
func (s *WatchHistoryStore) VideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.WatchHistoryEntry{}).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, classify(err, "list watch history")
	}
	return ids, nil
}
