package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

// maxToggleAttempts bounds the delete/insert loop when concurrent toggles on
// the same pair keep interleaving.
const maxToggleAttempts = 3

var errToggleContended = errors.New("subscription toggle kept losing to concurrent writers")

type SubscriptionService struct {
	users *store.UserStore
	subs  *store.SubscriptionStore
}

func NewSubscriptionService(users *store.UserStore, subs *store.SubscriptionStore) *SubscriptionService {
	return &SubscriptionService{users: users, subs: subs}
}

// Toggle flips the subscriber -> channel edge and reports whether it now exists.
//
// Each step is a single conditional statement against the unique
// (subscriber, channel) index: delete-if-present, then insert-if-absent. A lost
// insert means another toggle created the edge in between, so we go around
// again and remove it.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == uuid.Nil || channelID == uuid.Nil {
		return false, ErrInvalidID
	}
	if subscriberID == channelID {
		return false, ErrSelfSubscription
	}
	exists, err := s.users.Exists(ctx, channelID)
	if err != nil {
		return false, internal("check channel", err)
	}
	if !exists {
		return false, ErrChannelNotFound
	}

	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		deleted, err := s.subs.Delete(ctx, subscriberID, channelID)
		if err != nil {
			return false, internal("unsubscribe", err)
		}
		if deleted {
			return false, nil
		}
		inserted, err := s.subs.Insert(ctx, subscriberID, channelID)
		if err != nil {
			return false, internal("subscribe", err)
		}
		if inserted {
			return true, nil
		}
	}
	return false, internal("toggle subscription", errToggleContended)
}

func (s *SubscriptionService) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	ok, err := s.subs.Exists(ctx, subscriberID, channelID)
	if err != nil {
		return false, internal("check subscription", err)
	}
	return ok, nil
}

// CountSubscribers counts edges pointing at channelID.
func (s *SubscriptionService) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	n, err := s.subs.CountSubscribers(ctx, channelID)
	if err != nil {
		return 0, internal("count subscribers", err)
	}
	return n, nil
}

// CountSubscriptions counts edges leaving subscriberID.
func (s *SubscriptionService) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	n, err := s.subs.CountSubscriptions(ctx, subscriberID)
	if err != nil {
		return 0, internal("count subscriptions", err)
	}
	return n, nil
}
