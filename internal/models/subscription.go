package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a subscriber -> channel edge. The pair is unique.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:1" json:"subscriber"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:2;index" json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
	Subscriber   User      `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	Channel      User      `gorm:"foreignKey:ChannelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
