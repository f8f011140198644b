package handlers

import (
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VideoHandler struct {
	videos  *services.VideoService
	history *services.HistoryService
}

func NewVideoHandler(videos *services.VideoService, history *services.HistoryService) *VideoHandler {
	return &VideoHandler{videos: videos, history: history}
}

func (h *VideoHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	in := services.ListVideosInput{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 10),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
	}
	if raw := c.Query("userId"); raw != "" {
		if in.OwnerID, err = services.ParseID(raw); err != nil {
			return respondError(c, err)
		}
	}

	page, err := h.videos.List(c.UserContext(), p.ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVideoPageResponse(page))
}

// Publish expects multipart/form-data with videoFile and thumbnail files.
func (h *VideoHandler) Publish(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	duration := 0.0
	if raw := c.FormValue("duration"); raw != "" {
		if duration, err = parseDuration(raw); err != nil {
			return respondError(c, err)
		}
	}

	video, err := h.videos.Publish(c.UserContext(), p.ID, services.PublishVideoInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Duration:    duration,
		VideoFile:   formFile(c, "videoFile"),
		Thumbnail:   formFile(c, "thumbnail"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewVideoResponse(video))
}

func (h *VideoHandler) Get(c *fiber.Ctx) error {
	p, videoID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	video, err := h.videos.Get(c.UserContext(), p.ID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVideoResponse(video))
}

// Update accepts JSON, or multipart/form-data when a new thumbnail is sent.
func (h *VideoHandler) Update(c *fiber.Ctx) error {
	p, videoID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}

	var in services.UpdateVideoInput
	if form, ferr := c.MultipartForm(); ferr == nil {
		if v := form.Value["title"]; len(v) > 0 {
			in.Title = &v[0]
		}
		if v := form.Value["description"]; len(v) > 0 {
			in.Description = &v[0]
		}
		if files := form.File["thumbnail"]; len(files) > 0 {
			in.Thumbnail = files[0]
		}
	} else {
		var req dto.UpdateVideoRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		in.Title, in.Description = req.Title, req.Description
	}

	video, err := h.videos.Update(c.UserContext(), p.ID, videoID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVideoResponse(video))
}

func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	p, videoID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.videos.Delete(c.UserContext(), p.ID, videoID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Video deleted successfully"})
}

func (h *VideoHandler) TogglePublish(c *fiber.Ctx) error {
	p, videoID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	video, err := h.videos.TogglePublish(c.UserContext(), p.ID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewVideoResponse(video))
}

// Watch records the video in the caller's watch history.
func (h *VideoHandler) Watch(c *fiber.Ctx) error {
	p, videoID, err := h.target(c)
	if err != nil {
		return respondError(c, err)
	}
	added, err := h.history.RecordView(c.UserContext(), p.ID, videoID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WatchResponse{VideoID: videoID, Added: added})
}

func (h *VideoHandler) target(c *fiber.Ctx) (*services.Principal, uuid.UUID, error) {
	p, err := principal(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	videoID, err := services.ParseID(c.Params("videoId"))
	if err != nil {
		return nil, uuid.Nil, err
	}
	return p, videoID, nil
}
