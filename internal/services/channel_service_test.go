package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
)

func TestChannelService_ProfileCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.register(t, "bob")
	alice := f.register(t, "alice")
	carol := f.register(t, "carol")
	dave := f.register(t, "dave")
	erin := f.register(t, "erin")

	for _, fan := range []uuid.UUID{alice.ID, carol.ID, dave.ID} {
		_, err := f.subscriptions.Toggle(ctx, fan, bob.ID)
		require.NoError(t, err)
	}
	_, err := f.subscriptions.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	profile, err := f.channels.Profile(ctx, "bob", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, profile.ID)
	assert.Equal(t, int64(3), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, bob.Avatar, profile.Avatar)

	profile, err = f.channels.Profile(ctx, bob.ID.String(), erin.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	assert.False(t, profile.IsSubscribed)

	profile, err = f.channels.Profile(ctx, "  BOB ", uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, profile.ID)
	assert.False(t, profile.IsSubscribed)
}

func TestChannelService_ProfileNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "bob")

	_, err := f.channels.Profile(ctx, "nobody", uuid.Nil)
	assert.ErrorIs(t, err, services.ErrChannelNotFound)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.channels.Profile(ctx, uuid.NewString(), uuid.Nil)
	assert.ErrorIs(t, err, services.ErrChannelNotFound)

	_, err = f.channels.Profile(ctx, " ", uuid.Nil)
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}
