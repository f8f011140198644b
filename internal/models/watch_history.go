package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchHistoryEntry is one element of a user's watch history. Seq preserves
// first-view order; the (user, video) pair is unique so the history behaves
// as an ordered set.
type WatchHistoryEntry struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_video,priority:1" json:"-"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_watch_history_user_video,priority:2;index" json:"video"`
	CreatedAt time.Time `json:"watchedAt"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Video     Video     `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (WatchHistoryEntry) TableName() string {
	return "watch_history_entries"
}
