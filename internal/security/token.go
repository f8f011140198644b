package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidTokenConfig = errors.New("invalid token configuration")
)

// TokenConfig is fixed at startup and handed to NewTokenSigner.
type TokenConfig struct {
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

// Identity is the user data embedded in an access token.
type Identity struct {
	ID       uuid.UUID
	Email    string
	Username string
	FullName string
}

type AccessClaims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *AccessClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

func (c *RefreshClaims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenSigner issues and verifies HS256 access and refresh tokens.
// It is safe for concurrent use.
type TokenSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	now           func() time.Time
}

type TokenOption func(*TokenSigner)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenSigner) {
		s.now = now
	}
}

func NewTokenSigner(cfg TokenConfig, opts ...TokenOption) (*TokenSigner, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("%w: secrets are required", ErrInvalidTokenConfig)
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidTokenConfig)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%w: expiries must be positive", ErrInvalidTokenConfig)
	}

	s := &TokenSigner{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		issuer:        cfg.Issuer,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenSigner) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenSigner) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenSigner) IssueAccessToken(id Identity) (string, error) {
	now := s.now()
	claims := AccessClaims{
		Email:            id.Email,
		Username:         id.Username,
		FullName:         id.FullName,
		RegisteredClaims: s.registered(id.ID, now, s.accessTTL),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken signs a refresh token carrying only the user id. Every
// token gets a fresh jti, so two tokens issued in the same second still differ.
func (s *TokenSigner) IssueRefreshToken(userID uuid.UUID) (string, error) {
	claims := RefreshClaims{RegisteredClaims: s.registered(userID, s.now(), s.refreshTTL)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

func (s *TokenSigner) ParseAccessToken(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(raw, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenSigner) ParseRefreshToken(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(raw, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// AccessKeyFunc resolves the access secret for HS256 tokens and rejects any
// other algorithm.
func (s *TokenSigner) AccessKeyFunc() jwt.Keyfunc {
	return keyFunc(s.accessSecret)
}

func (s *TokenSigner) registered(userID uuid.UUID, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (s *TokenSigner) parse(raw string, claims jwt.Claims, secret []byte) error {
	if raw == "" {
		return ErrInvalidToken
	}
	_, err := jwt.ParseWithClaims(raw, claims, keyFunc(secret),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

func keyFunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}
}
