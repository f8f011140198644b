package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PlaylistHandler struct {
	playlists *services.PlaylistService
}

func NewPlaylistHandler(playlists *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

func (h *PlaylistHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	playlist, err := h.playlists.Create(c.UserContext(), p.ID, req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPlaylistResponse(playlist))
}

func (h *PlaylistHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := services.ParseID(c.Params("userId"))
	if err != nil {
		return respondError(c, err)
	}
	playlists, err := h.playlists.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPlaylistSummariesResponse(playlists))
}

func (h *PlaylistHandler) Get(c *fiber.Ctx) error {
	p, playlistID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	detail, err := h.playlists.Get(c.UserContext(), p.ID, playlistID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPlaylistDetailResponse(detail))
}

func (h *PlaylistHandler) Update(c *fiber.Ctx) error {
	p, playlistID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.UpdatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	playlist, err := h.playlists.Update(c.UserContext(), p.ID, playlistID, services.UpdatePlaylistInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewPlaylistResponse(playlist))
}

func (h *PlaylistHandler) Delete(c *fiber.Ctx) error {
	p, playlistID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.playlists.Delete(c.UserContext(), p.ID, playlistID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Playlist deleted successfully"})
}

func (h *PlaylistHandler) AddVideo(c *fiber.Ctx) error {
	p, playlistID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	videoID, err := services.ParseID(c.Params("videoId"))
	if err != nil {
		return respondError(c, err)
	}
	added, err := h.playlists.AddVideo(c.UserContext(), p.ID, playlistID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PlaylistVideoResponse{PlaylistID: playlistID, VideoID: videoID, Changed: added})
}

func (h *PlaylistHandler) RemoveVideo(c *fiber.Ctx) error {
	p, playlistID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	videoID, err := services.ParseID(c.Params("videoId"))
	if err != nil {
		return respondError(c, err)
	}
	removed, err := h.playlists.RemoveVideo(c.UserContext(), p.ID, playlistID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PlaylistVideoResponse{PlaylistID: playlistID, VideoID: videoID, Changed: removed})
}

func (h *PlaylistHandler) target(c *fiber.Ctx) (*services.Principal, uuid.UUID, error) {
	p, err := principal(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	playlistID, err := services.ParseID(c.Params("playlistId"))
	if err != nil {
		return nil, uuid.Nil, err
	}
	return p, playlistID, nil
}
