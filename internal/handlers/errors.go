package handlers

import (
	"errors"
	"log/slog"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. Server errors are logged and
// reported to Sentry; the client only sees a generic message.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status >= fiber.StatusInternalServerError {
		attrs := []any{"error", err, "method", c.Method(), "path", c.Path()}
		if id, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", id)
		}
		if p := middleware.PrincipalFrom(c); p != nil {
			attrs = append(attrs, "user_id", p.ID.String())
		}
		slog.Error("request failed", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// principal returns the authenticated caller. Routes using it are always
// behind middleware.Authenticate.
func principal(c *fiber.Ctx) (*services.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return nil, services.ErrInvalidAccessToken
	}
	return p, nil
}

// formFile returns the uploaded file for field, or nil when none was sent.
func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

func parseDuration(raw string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, services.ErrInvalidDuration
	}
	return d, nil
}
