package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner"`
	VideoFile   string    `gorm:"type:text;not null" json:"videoFile"`
	Thumbnail   string    `gorm:"type:text;not null" json:"thumbnail"`
	VideoKey    string    `gorm:"type:text" json:"-"`
	ThumbKey    string    `gorm:"type:text" json:"-"`
	Title       string    `gorm:"size:255;not null;index" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Duration    float64   `gorm:"not null" json:"duration"`
	IsPublished bool      `gorm:"not null;index" json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
