package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlaylistVideo places a video in a playlist. Seq keeps insertion order and
// the (playlist, video) pair is unique, like the watch history.
type PlaylistVideo struct {
	Seq        uint64    `gorm:"primaryKey;autoIncrement"`
	PlaylistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_pair,priority:1"`
	VideoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_pair,priority:2;index"`
	CreatedAt  time.Time
	Playlist   Playlist `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
	Video      Video    `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}
