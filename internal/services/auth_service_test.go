package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
)

func TestAuthService_LoginThenAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	res, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Equal(t, alice.ID, res.User.ID)

	principal, err := f.resolve(t, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, principal.ID)
	assert.Equal(t, "alice", principal.Username)

	stored := f.storedRefreshToken(t, alice)
	require.NotNil(t, stored)
	assert.Equal(t, res.Tokens.RefreshToken, *stored)
}

func TestAuthService_LoginByEmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	res, err := f.auth.Login(context.Background(), "", "  ALICE@x.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.User.ID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	first, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		email    string
		password string
		want     error
		kind     error
	}{
		{"wrong password", "alice", "", "wrong-password", services.ErrInvalidCredentials, services.ErrUnauthorized},
		{"unknown user", "nobody", "", testPassword, services.ErrInvalidCredentials, services.ErrUnauthorized},
		{"no identifier", "", "", testPassword, services.ErrMissingFields, services.ErrInvalidArgument},
		{"no password", "alice", "", "", services.ErrMissingFields, services.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.auth.Login(ctx, tt.username, tt.email, tt.password)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	stored := f.storedRefreshToken(t, alice)
	require.NotNil(t, stored)
	assert.Equal(t, first.Tokens.RefreshToken, *stored, "failed logins must not touch the stored token")
}

func TestAuthService_RefreshTokenIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	login, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	rotated, err := f.auth.RotateRefreshToken(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, rotated.RefreshToken)

	_, err = f.auth.RotateRefreshToken(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrRefreshTokenReused)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	again, err := f.auth.RotateRefreshToken(ctx, rotated.RefreshToken)
	require.NoError(t, err)

	stored := f.storedRefreshToken(t, alice)
	require.NotNil(t, stored)
	assert.Equal(t, again.RefreshToken, *stored)

	principal, err := f.resolve(t, again.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, principal.ID)
}

func TestAuthService_ConcurrentRotationHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	login, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.auth.RotateRefreshToken(ctx, login.Tokens.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			if assert.ErrorIs(t, err, services.ErrUnauthorized) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, failures)
}

func TestAuthService_LogoutRevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	login, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, alice.ID))
	assert.Nil(t, f.storedRefreshToken(t, alice))

	_, err = f.auth.RotateRefreshToken(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestAuthService_RejectsWrongTokenKinds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	login, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	_, err = f.auth.RotateRefreshToken(ctx, login.Tokens.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	_, err = f.auth.RotateRefreshToken(ctx, "")
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	_, err = f.signer.ParseAccessToken(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)

	_, err = f.auth.ResolvePrincipal(ctx, &security.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-uuid"},
	})
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = f.auth.ResolvePrincipal(ctx, nil)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestAuthService_AuthenticateDeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	login, err := f.auth.Login(ctx, "alice", "", testPassword)
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&models.User{}, "id = ?", alice.ID).Error)

	_, err = f.resolve(t, login.Tokens.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidAccessToken)

	_, err = f.auth.RotateRefreshToken(ctx, login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}
