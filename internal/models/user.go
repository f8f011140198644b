package models

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is both the account record and the channel a viewer can subscribe to.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	FullName     string    `gorm:"size:255;not null;index" json:"fullName"`
	Password     string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"type:text;not null" json:"avatar"`
	CoverImage   string    `gorm:"type:text" json:"coverImage"`
	AvatarKey    string    `gorm:"type:text" json:"-"`
	CoverKey     string    `gorm:"type:text" json:"-"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	passwordChanged bool
}

// SetPassword stages a plaintext password. It is hashed once, on the next save.
func (u *User) SetPassword(plain string) {
	u.Password = plain
	u.passwordChanged = true
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave hashes a staged password. Saves that did not call SetPassword
// leave the stored hash untouched.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if !u.passwordChanged {
		return nil
	}
	hash, err := security.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = hash
	u.passwordChanged = false
	return nil
}
