package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Toggle(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	channelID, err := services.ParseID(c.Params("channelId"))
	if err != nil {
		return respondError(c, err)
	}
	subscribed, err := h.subscriptions.Toggle(c.UserContext(), p.ID, channelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SubscriptionToggleResponse{Subscribed: subscribed})
}

// Subscribers counts the subscribers of :channelId, or of the caller when the
// route has no channel.
func (h *SubscriptionHandler) Subscribers(c *fiber.Ctx) error {
	channelID, err := h.idOrCaller(c, "channelId")
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.subscriptions.CountSubscribers(c.UserContext(), channelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SubscriberCountResponse{ChannelID: channelID, SubscribersCount: n})
}

// Channels counts the channels :subscriberId (or the caller) subscribes to.
func (h *SubscriptionHandler) Channels(c *fiber.Ctx) error {
	subscriberID, err := h.idOrCaller(c, "subscriberId")
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.subscriptions.CountSubscriptions(c.UserContext(), subscriberID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SubscribedChannelsCountResponse{SubscriberID: subscriberID, ChannelsSubscribedToCount: n})
}

func (h *SubscriptionHandler) idOrCaller(c *fiber.Ctx, param string) (uuid.UUID, error) {
	if raw := c.Params(param); raw != "" {
		return services.ParseID(raw)
	}
	p, err := principal(c)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}
