package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	users    *services.UserService
	channels *services.ChannelService
	history  *services.HistoryService
}

func NewUserHandler(users *services.UserService, channels *services.ChannelService, history *services.HistoryService) *UserHandler {
	return &UserHandler{users: users, channels: channels, history: history}
}

// Register expects multipart/form-data with an avatar file and an optional coverImage.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	user, err := h.users.Register(c.UserContext(), services.RegisterInput{
		FullName:   c.FormValue("fullName"),
		Email:      c.FormValue("email"),
		Username:   c.FormValue("username"),
		Password:   c.FormValue("password"),
		Avatar:     formFile(c, "avatar"),
		CoverImage: formFile(c, "coverImage"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) CurrentUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPrincipalResponse(p))
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.users.ChangePassword(c.UserContext(), p.ID, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}

func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	user, err := h.users.UpdateAccount(c.UserContext(), p.ID, req.FullName, req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateAvatar(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.UpdateAvatar(c.UserContext(), p.ID, formFile(c, "avatar"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateCoverImage(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := h.users.UpdateCoverImage(c.UserContext(), p.ID, formFile(c, "coverImage"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

// ChannelProfile accepts a user id or a username.
func (h *UserHandler) ChannelProfile(c *fiber.Ctx) error {
	callerID := uuid.Nil
	if p := middleware.PrincipalFrom(c); p != nil {
		callerID = p.ID
	}
	profile, err := h.channels.Profile(c.UserContext(), c.Params("identifier"), callerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewChannelProfileResponse(profile))
}

func (h *UserHandler) WatchHistory(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	entries, err := h.history.WatchHistory(c.UserContext(), p.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewHistoryResponse(entries))
}
