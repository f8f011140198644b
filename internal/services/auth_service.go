package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

// Principal is the authenticated caller. It never carries the password hash
// or the refresh token.
type Principal struct {
	ID         uuid.UUID
	Username   string
	Email      string
	FullName   string
	Avatar     string
	CoverImage string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func newPrincipal(u *models.User) *Principal {
	return &Principal{
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

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	Tokens TokenPair
	User   *models.User
}

type AuthService struct {
	users  *store.UserStore
	signer *security.TokenSigner
}

func NewAuthService(users *store.UserStore, signer *security.TokenSigner) *AuthService {
	return &AuthService{users: users, signer: signer}
}

// Login verifies a username or email plus password and issues a fresh token pair.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, email, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if (username == "" && email == "") || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internal("find user", err)
	}
	if !security.VerifyPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: *pair, User: user}, nil
}

// IssueTokenPair signs a new pair and persists the refresh token, replacing
// whatever was stored before.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, internal("store refresh token", err)
	}
	token := pair.RefreshToken
	user.RefreshToken = &token
	return pair, nil
}

// RotateRefreshToken exchanges a refresh token for a new pair. Each refresh
// token can be exchanged at most once: the swap only succeeds while the
// presented token is still the stored one.
func (s *AuthService) RotateRefreshToken(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := s.signer.ParseRefreshToken(presented)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, internal("load user", err)
	}
	if user.RefreshToken == nil || subtle.ConstantTimeCompare([]byte(*user.RefreshToken), []byte(presented)) != 1 {
		slog.Warn("refresh token reuse rejected", "user_id", user.ID.String())
		return nil, ErrRefreshTokenReused
	}

	pair, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	swapped, err := s.users.SwapRefreshToken(ctx, user.ID, presented, pair.RefreshToken)
	if err != nil {
		return nil, internal("rotate refresh token", err)
	}
	if !swapped {
		return nil, ErrRefreshTokenReused
	}
	return pair, nil
}

// Logout revokes the stored refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		return internal("clear refresh token", err)
	}
	return nil
}

// ResolvePrincipal loads the user named by already-verified access claims.
func (s *AuthService) ResolvePrincipal(ctx context.Context, claims *security.AccessClaims) (*Principal, error) {
	if claims == nil {
		return nil, ErrInvalidAccessToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, internal("load user", err)
	}
	return newPrincipal(user), nil
}

func (s *AuthService) sign(user *models.User) (*TokenPair, error) {
	access, err := s.signer.IssueAccessToken(security.Identity{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		FullName: user.FullName,
	})
	if err != nil {
		return nil, internal("sign access token", err)
	}
	refresh, err := s.signer.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, internal("sign refresh token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
