package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

// ChannelProfile is the public view of a user as a channel.
type ChannelProfile struct {
	ID                        uuid.UUID
	Username                  string
	FullName                  string
	Email                     string
	Avatar                    string
	CoverImage                string
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              bool
	CreatedAt                 time.Time
}

type ChannelService struct {
	users *store.UserStore
	subs  *SubscriptionService
}

func NewChannelService(users *store.UserStore, subs *SubscriptionService) *ChannelService {
	return &ChannelService{users: users, subs: subs}
}

// Profile resolves identifier as a user id first and then as a username.
// callerID may be uuid.Nil, in which case IsSubscribed is false.
func (s *ChannelService) Profile(ctx context.Context, identifier string, callerID uuid.UUID) (*ChannelProfile, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrMissingFields
	}

	channel, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	profile := &ChannelProfile{
		ID:         channel.ID,
		Username:   channel.Username,
		FullName:   channel.FullName,
		Email:      channel.Email,
		Avatar:     channel.Avatar,
		CoverImage: channel.CoverImage,
		CreatedAt:  channel.CreatedAt,
	}
	if profile.SubscribersCount, err = s.subs.CountSubscribers(ctx, channel.ID); err != nil {
		return nil, err
	}
	if profile.ChannelsSubscribedToCount, err = s.subs.CountSubscriptions(ctx, channel.ID); err != nil {
		return nil, err
	}
	if callerID != uuid.Nil {
		if profile.IsSubscribed, err = s.subs.IsSubscribed(ctx, callerID, channel.ID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *ChannelService) resolve(ctx context.Context, identifier string) (*models.User, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		user, err := s.users.GetByID(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, internal("load channel", err)
		}
	}

	user, err := s.users.GetByUsername(ctx, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, internal("load channel", err)
	}
	return user, nil
}
