package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a dependency is reachable.
type Pinger func() error

type HealthHandler struct {
	db      Pinger
	backend string
}

// NewHealthHandler takes the database ping and the name of the blob backend in use.
func NewHealthHandler(db Pinger, blobBackend string) *HealthHandler {
	return &HealthHandler{db: db, backend: blobBackend}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.db(); err != nil {
		slog.Error("health check: database unreachable", "error", err)
		status = "degraded"
		dbStatus = "unhealthy"
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Blob:      h.backend,
	})
}
