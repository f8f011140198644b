package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
)

func testTokenConfig() security.TokenConfig {
	return security.TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    240 * time.Hour,
		Issuer:        "vidtube",
	}
}

func TestNewTokenSigner(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		s, err := security.NewTokenSigner(testTokenConfig())
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.AccessTTL())
		assert.Equal(t, 240*time.Hour, s.RefreshTTL())
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		cfg := testTokenConfig()
		cfg.RefreshSecret = ""
		_, err := security.NewTokenSigner(cfg)
		assert.ErrorIs(t, err, security.ErrInvalidTokenConfig)
	})

	t.Run("shared secret", func(t *testing.T) {
		t.Parallel()
		cfg := testTokenConfig()
		cfg.RefreshSecret = cfg.AccessSecret
		_, err := security.NewTokenSigner(cfg)
		assert.ErrorIs(t, err, security.ErrInvalidTokenConfig)
	})

	t.Run("non-positive expiry", func(t *testing.T) {
		t.Parallel()
		cfg := testTokenConfig()
		cfg.AccessTTL = 0
		_, err := security.NewTokenSigner(cfg)
		assert.ErrorIs(t, err, security.ErrInvalidTokenConfig)
	})
}

func TestAccessToken(t *testing.T) {
	t.Parallel()

	s, err := security.NewTokenSigner(testTokenConfig())
	require.NoError(t, err)

	id := security.Identity{ID: uuid.New(), Email: "a@x.com", Username: "alice", FullName: "Alice A"}
	raw, err := s.IssueAccessToken(id)
	require.NoError(t, err)

	claims, err := s.ParseAccessToken(raw)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id.ID, uid)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "Alice A", claims.FullName)
	assert.Equal(t, "vidtube", claims.Issuer)

	t.Run("not accepted as refresh token", func(t *testing.T) {
		t.Parallel()
		_, err := s.ParseRefreshToken(raw)
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := s.ParseAccessToken("")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()
		_, err := s.ParseAccessToken(raw + "x")
		assert.ErrorIs(t, err, security.ErrInvalidToken)
	})
}

func TestAccessTokenExpired(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)
	issuer, err := security.NewTokenSigner(testTokenConfig(), security.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	verifier, err := security.NewTokenSigner(testTokenConfig())
	require.NoError(t, err)

	raw, err := issuer.IssueAccessToken(security.Identity{ID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(raw)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	s, err := security.NewTokenSigner(testTokenConfig())
	require.NoError(t, err)

	userID := uuid.New()
	first, err := s.IssueRefreshToken(userID)
	require.NoError(t, err)
	second, err := s.IssueRefreshToken(userID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "tokens issued back to back must differ")

	claims, err := s.ParseRefreshToken(first)
	require.NoError(t, err)
	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, uid)

	_, err = s.ParseAccessToken(first)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s, err := security.NewTokenSigner(testTokenConfig())
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = s.ParseAccessToken(raw)
	assert.ErrorIs(t, err, security.ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ParseAccessToken(unsigned)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}
