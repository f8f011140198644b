package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/google/uuid"
)

type TweetRequest struct {
	Content string `json:"content" form:"content"`
}

type TweetResponse struct {
	ID        uuid.UUID `json:"_id"`
	Owner     uuid.UUID `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewTweetResponse(t *models.Tweet) TweetResponse {
	return TweetResponse{
		ID:        t.ID,
		Owner:     t.OwnerID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TweetWithOwnerResponse inlines the author's public fields.
type TweetWithOwnerResponse struct {
	TweetResponse
	Owner OwnerResponse `json:"owner"`
}

type TweetPageResponse struct {
	Tweets      []TweetWithOwnerResponse `json:"tweets"`
	Page        int                      `json:"page"`
	Limit       int                      `json:"limit"`
	TotalTweets int64                    `json:"totalTweets"`
	TotalPages  int                      `json:"totalPages"`
	HasNextPage bool                     `json:"hasNextPage"`
	HasPrevPage bool                     `json:"hasPrevPage"`
}

func NewTweetPageResponse(p *services.TweetPage) TweetPageResponse {
	tweets := make([]TweetWithOwnerResponse, 0, len(p.Tweets))
	for i := range p.Tweets {
		t := &p.Tweets[i]
		tweets = append(tweets, TweetWithOwnerResponse{
			TweetResponse: NewTweetResponse(&t.Tweet),
			Owner:         newOwnerResponse(t.Owner),
		})
	}
	return TweetPageResponse{
		Tweets:      tweets,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalTweets: p.TotalTweets,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}
