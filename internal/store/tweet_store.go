package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TweetStore struct {
	db *gorm.DB
}

func NewTweetStore(db *gorm.DB) *TweetStore {
	return &TweetStore{db: db}
}

func (s *TweetStore) Create(ctx context.Context, tweet *models.Tweet) error {
	return classify(s.db.WithContext(ctx).Create(tweet).Error, "create tweet")
}

func (s *TweetStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := s.db.WithContext(ctx).First(&tweet, "id = ?", id).Error; err != nil {
		return nil, classify(err, "get tweet")
	}
	return &tweet, nil
}

// List returns tweets newest first, optionally for one owner, with the total
// count before paging.
func (s *TweetStore) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Tweet, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Tweet{})
	if ownerID != uuid.Nil {
		query = query.Where("owner_id = ?", ownerID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, classify(err, "count tweets")
	}

	var tweets []models.Tweet
	query = query.Order("created_at DESC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&tweets).Error; err != nil {
		return nil, 0, classify(err, "list tweets")
	}
	return tweets, total, nil
}

// UpdateContent rewrites a tweet only while it still belongs to ownerID.
func (s *TweetStore) UpdateContent(ctx context.Context, id, ownerID uuid.UUID, content string) (*models.Tweet, error) {
	result := s.db.WithContext(ctx).Model(&models.Tweet{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("content", content)
	if result.Error != nil {
		return nil, classify(result.Error, "update tweet")
	}
	if result.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound, "update tweet")
	}
	return s.GetByID(ctx, id)
}

func (s *TweetStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Tweet{})
	if result.Error != nil {
		return classify(result.Error, "delete tweet")
	}
	if result.RowsAffected == 0 {
		return classify(gorm.ErrRecordNotFound, "delete tweet")
	}
	return nil
}
