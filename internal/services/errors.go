package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to status codes; every concrete error
// below unwraps to exactly one of them.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

var (
	ErrMissingFields       = newError(ErrInvalidArgument, "all fields are required")
	ErrInvalidID           = newError(ErrInvalidArgument, "invalid id")
	ErrInvalidUsername     = newError(ErrInvalidArgument, "username may only contain lowercase letters, digits, '.', '_' and '-'")
	ErrInvalidEmail        = newError(ErrInvalidArgument, "invalid email address")
	ErrWeakPassword        = newError(ErrInvalidArgument, "password must be between 8 and 72 characters")
	ErrInvalidOldPassword  = newError(ErrInvalidArgument, "invalid old password")
	ErrSelfSubscription    = newError(ErrInvalidArgument, "you cannot subscribe to your own channel")
	ErrAvatarRequired      = newError(ErrInvalidArgument, "avatar file is required")
	ErrCoverImageRequired  = newError(ErrInvalidArgument, "cover image file is required")
	ErrVideoFileRequired   = newError(ErrInvalidArgument, "video file and thumbnail are required")
	ErrUnsupportedFileType = newError(ErrInvalidArgument, "unsupported file type")
	ErrInvalidDuration     = newError(ErrInvalidArgument, "duration must not be negative")
	ErrTweetTooLong        = newError(ErrInvalidArgument, "tweet must be at most 280 characters")

	ErrInvalidCredentials  = newError(ErrUnauthorized, "invalid user credentials")
	ErrInvalidAccessToken  = newError(ErrUnauthorized, "invalid access token")
	ErrInvalidRefreshToken = newError(ErrUnauthorized, "invalid refresh token")
	ErrRefreshTokenReused  = newError(ErrUnauthorized, "refresh token is expired or used")

	ErrNotVideoOwner    = newError(ErrForbidden, "only the owner can modify this video")
	ErrNotTweetOwner    = newError(ErrForbidden, "only the owner can modify this tweet")
	ErrNotPlaylistOwner = newError(ErrForbidden, "only the owner can modify this playlist")

	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrChannelNotFound  = newError(ErrNotFound, "channel does not exist")
	ErrVideoNotFound    = newError(ErrNotFound, "video not found")
	ErrTweetNotFound    = newError(ErrNotFound, "tweet not found")
	ErrPlaylistNotFound = newError(ErrNotFound, "playlist not found")

	ErrUserExists = newError(ErrConflict, "user with email or username already exists")
	ErrEmailTaken = newError(ErrConflict, "email already in use")
)

type serviceError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}

func (e *serviceError) Error() string { return e.msg }
func (e *serviceError) Unwrap() error { return e.kind }

// internal wraps an unexpected failure. The cause stays reachable for logging
// but the kind is always ErrInternal.
func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
