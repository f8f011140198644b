package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/google/uuid"
)

// UserResponse is the public projection of a user. It has no field for the
// password hash or the refresh token.
type UserResponse struct {
	ID         uuid.UUID `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func NewPrincipalResponse(p *services.Principal) UserResponse {
	return UserResponse{
		ID:         p.ID,
		Username:   p.Username,
		Email:      p.Email,
		FullName:   p.FullName,
		Avatar:     p.Avatar,
		CoverImage: p.CoverImage,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type ChannelProfileResponse struct {
	ID                        uuid.UUID `json:"_id"`
	Username                  string    `json:"username"`
	FullName                  string    `json:"fullName"`
	Email                     string    `json:"email"`
	Avatar                    string    `json:"avatar"`
	CoverImage                string    `json:"coverImage"`
	SubscribersCount          int64     `json:"subscribersCount"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
	IsSubscribed              bool      `json:"isSubscribed"`
	CreatedAt                 time.Time `json:"createdAt"`
}

func NewChannelProfileResponse(p *services.ChannelProfile) ChannelProfileResponse {
	return ChannelProfileResponse{
		ID:                        p.ID,
		Username:                  p.Username,
		FullName:                  p.FullName,
		Email:                     p.Email,
		Avatar:                    p.Avatar,
		CoverImage:                p.CoverImage,
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
		CreatedAt:                 p.CreatedAt,
	}
}

type SubscriptionToggleResponse struct {
	Subscribed bool `json:"subscribed"`
}

type SubscriberCountResponse struct {
	ChannelID        uuid.UUID `json:"channelId"`
	SubscribersCount int64     `json:"subscribersCount"`
}

type SubscribedChannelsCountResponse struct {
	SubscriberID              uuid.UUID `json:"subscriberId"`
	ChannelsSubscribedToCount int64     `json:"channelsSubscribedToCount"`
}
