package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistStore struct {
	db *gorm.DB
}

func NewPlaylistStore(db *gorm.DB) *PlaylistStore {
	return &PlaylistStore{db: db}
}

func (s *PlaylistStore) Create(ctx context.Context, playlist *models.Playlist) error {
	return classify(s.db.WithContext(ctx).Create(playlist).Error, "create playlist")
}

func (s *PlaylistStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.db.WithContext(ctx).First(&playlist, "id = ?", id).Error; err != nil {
		return nil, classify(err, "get playlist")
	}
	return &playlist, nil
}

// ListByOwner returns the owner's playlists, most recently created first.
func (s *PlaylistStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").Order("id ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, classify(err, "list playlists")
	}
	return playlists, nil
}

func (s *PlaylistStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Playlist, error) {
	result := s.db.WithContext(ctx).Model(&models.Playlist{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, classify(result.Error, "update playlist")
	}
	if result.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound, "update playlist")
	}
	return s.GetByID(ctx, id)
}

// Delete removes the playlist and its entries.
func (s *PlaylistStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return classify(err, "delete playlist videos")
		}
		result := tx.Where("id = ?", id).Delete(&models.Playlist{})
		if result.Error != nil {
			return classify(result.Error, "delete playlist")
		}
		if result.RowsAffected == 0 {
			return classify(gorm.ErrRecordNotFound, "delete playlist")
		}
		return nil
	})
}

// AddVideo appends videoID unless the playlist already holds it. It reports
// whether a new entry was written.
func (s *PlaylistStore) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	entry := models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "video_id"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		return false, classify(result.Error, "add playlist video")
	}
	return result.RowsAffected == 1, nil
}

func (s *PlaylistStore) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if result.Error != nil {
		return false, classify(result.Error, "remove playlist video")
	}
	return result.RowsAffected == 1, nil
}

// VideoIDs returns the playlist's videos in the order they were added.
func (s *PlaylistStore) VideoIDs(ctx context.Context, playlistID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.PlaylistVideo{}).
		Where("playlist_id = ?", playlistID).
		Order("seq ASC").
		Pluck("video_id", &ids).Error
	if err != nil {
		return nil, classify(err, "list playlist videos")
	}
	return ids, nil
}

// CountVideos returns the number of entries per playlist. Playlists with no
// entries are absent from the map.
func (s *PlaylistStore) CountVideos(ctx context.Context, playlistIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(playlistIDs))
	if len(playlistIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PlaylistID uuid.UUID
		Total      int64
	}
	err := s.db.WithContext(ctx).Model(&models.PlaylistVideo{}).
		Select("playlist_id, COUNT(*) AS total").
		Where("playlist_id IN ?", playlistIDs).
		Group("playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err, "count playlist videos")
	}
	for _, r := range rows {
		counts[r.PlaylistID] = r.Total
	}
	return counts, nil
}
