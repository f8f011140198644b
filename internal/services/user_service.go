package services

import (
	"context"
	"errors"
	"mime/multipart"
	"net/mail"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/blob"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/security"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,50}$`)

type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *multipart.FileHeader
	CoverImage *multipart.FileHeader
}

type UserService struct {
	users *store.UserStore
	blobs blob.Storage
}

func NewUserService(users *store.UserStore, blobs blob.Storage) *UserService {
	return &UserService{users: users, blobs: blobs}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrMissingFields
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if in.Avatar == nil {
		return nil, ErrAvatarRequired
	}
	if !blob.IsImage(in.Avatar) || (in.CoverImage != nil && !blob.IsImage(in.CoverImage)) {
		return nil, ErrUnsupportedFileType
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, internal("check existing user", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	up := &uploader{storage: s.blobs}
	avatar, err := up.upload(ctx, "avatars", in.Avatar)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  username,
		Email:     email,
		FullName:  fullName,
		Avatar:    avatar.URL,
		AvatarKey: avatar.Key,
	}
	if in.CoverImage != nil {
		cover, err := up.upload(ctx, "covers", in.CoverImage)
		if err != nil {
			up.rollback(ctx)
			return nil, err
		}
		user.CoverImage, user.CoverKey = cover.URL, cover.Key
	}

	user.SetPassword(in.Password)
	if err := s.users.Create(ctx, user); err != nil {
		up.rollback(ctx)
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, internal("create user", err)
	}
	return user, nil
}

func (s *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.load(ctx, userID)
}

// ChangePassword leaves the stored refresh token alone; existing sessions
// keep working until they rotate or log out.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !security.VerifyPassword(oldPassword, user.Password) {
		return ErrInvalidOldPassword
	}
	user.SetPassword(newPassword)
	if err := s.users.Save(ctx, user); err != nil {
		return internal("save password", err)
	}
	return nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, ErrMissingFields
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	user, err := s.users.UpdateFields(ctx, userID, map[string]interface{}{
		"full_name": fullName,
		"email":     email,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, ErrEmailTaken
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, internal("update account", err)
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*models.User, error) {
	if fh == nil {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, fh, "avatars", "avatar", "avatar_key")
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*models.User, error) {
	if fh == nil {
		return nil, ErrCoverImageRequired
	}
	return s.replaceImage(ctx, userID, fh, "covers", "cover_image", "cover_key")
}

// replaceImage uploads fh, points the user at it and then removes the object
// it replaced.
func (s *UserService) replaceImage(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader, prefix, urlColumn, keyColumn string) (*models.User, error) {
	if !blob.IsImage(fh) {
		return nil, ErrUnsupportedFileType
	}
	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := current.AvatarKey
	if keyColumn == "cover_key" {
		previous = current.CoverKey
	}

	up := &uploader{storage: s.blobs}
	obj, err := up.upload(ctx, prefix, fh)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateFields(ctx, userID, map[string]interface{}{
		urlColumn: obj.URL,
		keyColumn: obj.Key,
	})
	if err != nil {
		up.rollback(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("update "+urlColumn, err)
	}
	discard(ctx, s.blobs, previous)
	return user, nil
}

func (s *UserService) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal("load user", err)
	}
	return user, nil
}

func checkPassword(p string) error {
	if len(p) < minPasswordLength || len(p) > security.MaxPasswordBytes {
		return ErrWeakPassword
	}
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
