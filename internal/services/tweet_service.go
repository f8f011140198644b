package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

const maxTweetLength = 280

type TweetWithOwner struct {
	Tweet models.Tweet
	Owner OwnerSummary
}

type TweetPage struct {
	Tweets      []TweetWithOwner
	Page        int
	Limit       int
	TotalTweets int64
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
}

type TweetService struct {
	users  *store.UserStore
	tweets *store.TweetStore
}

func NewTweetService(users *store.UserStore, tweets *store.TweetStore) *TweetService {
	return &TweetService{users: users, tweets: tweets}
}

func (s *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (*models.Tweet, error) {
	content, err := tweetContent(content)
	if err != nil {
		return nil, err
	}
	tweet := &models.Tweet{OwnerID: ownerID, Content: content}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, internal("create tweet", err)
	}
	return tweet, nil
}

// ListByUser pages through one user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*TweetPage, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, internal("check user", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}
	return s.list(ctx, userID, page, limit)
}

// ListAll pages through every tweet, newest first.
func (s *TweetService) ListAll(ctx context.Context, page, limit int) (*TweetPage, error) {
	return s.list(ctx, uuid.Nil, page, limit)
}

func (s *TweetService) Update(ctx context.Context, callerID, tweetID uuid.UUID, content string) (*models.Tweet, error) {
	content, err := tweetContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, callerID, tweetID); err != nil {
		return nil, err
	}
	tweet, err := s.tweets.UpdateContent(ctx, tweetID, callerID, content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, internal("update tweet", err)
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, callerID, tweetID uuid.UUID) error {
	if err := s.checkOwner(ctx, callerID, tweetID); err != nil {
		return err
	}
	if err := s.tweets.Delete(ctx, tweetID, callerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTweetNotFound
		}
		return internal("delete tweet", err)
	}
	return nil
}

func (s *TweetService) list(ctx context.Context, ownerID uuid.UUID, page, limit int) (*TweetPage, error) {
	page, limit = normalizePage(page, limit)
	tweets, total, err := s.tweets.List(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, internal("list tweets", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(tweets))
	for _, t := range tweets {
		ownerIDs = append(ownerIDs, t.OwnerID)
	}
	owners, err := loadOwners(ctx, s.users, distinct(ownerIDs))
	if err != nil {
		return nil, err
	}

	out := make([]TweetWithOwner, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, TweetWithOwner{Tweet: t, Owner: owners[t.OwnerID]})
	}
	totalPages := pageCount(total, limit)
	return &TweetPage{
		Tweets:      out,
		Page:        page,
		Limit:       limit,
		TotalTweets: total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func (s *TweetService) checkOwner(ctx context.Context, callerID, tweetID uuid.UUID) error {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTweetNotFound
		}
		return internal("load tweet", err)
	}
	if tweet.OwnerID != callerID {
		return ErrNotTweetOwner
	}
	return nil
}

func tweetContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", ErrMissingFields
	}
	if utf8.RuneCountInString(content) > maxTweetLength {
		return "", ErrTweetTooLong
	}
	return content, nil
}
