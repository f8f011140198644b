package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
