package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TweetHandler struct {
	tweets *services.TweetService
}

func NewTweetHandler(tweets *services.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

func (h *TweetHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.TweetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	tweet, err := h.tweets.Create(c.UserContext(), p.ID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTweetResponse(tweet))
}

func (h *TweetHandler) List(c *fiber.Ctx) error {
	page, err := h.tweets.ListAll(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTweetPageResponse(page))
}

func (h *TweetHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := services.ParseID(c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.tweets.ListByUser(c.UserContext(), userID, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTweetPageResponse(page))
}

func (h *TweetHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	tweetID, err := services.ParseID(c.Params("tweetId"))
	if err != nil {
		return respondError(c, err)
	}
	var req dto.TweetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	tweet, err := h.tweets.Update(c.UserContext(), p.ID, tweetID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTweetResponse(tweet))
}

func (h *TweetHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	tweetID, err := services.ParseID(c.Params("tweetId"))
	if err != nil {
		return respondError(c, err)
	}
	if err := h.tweets.Delete(c.UserContext(), p.ID, tweetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Tweet deleted successfully"})
}
