package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionStore is the relationship store for subscriber -> channel edges.
type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Delete removes the edge if present and reports whether a row was deleted.
func (s *SubscriptionStore) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return false, classify(result.Error, "delete subscription")
	}
	return result.RowsAffected > 0, nil
}

// Insert creates the edge unless it already exists and reports whether a row was inserted.
func (s *SubscriptionStore) Insert(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "channel_id"}},
			DoNothing: true,
		}).
		Create(&sub)
	if result.Error != nil {
		return false, classify(result.Error, "insert subscription")
	}
	return result.RowsAffected == 1, nil
}

func (s *SubscriptionStore) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, classify(err, "check subscription")
	}
	return count > 0, nil
}

// CountSubscribers counts edges pointing at channelID.
func (s *SubscriptionStore) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, classify(err, "count subscribers")
}

// CountSubscriptions counts edges leaving subscriberID.
func (s *SubscriptionStore) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, classify(err, "count subscriptions")
}
