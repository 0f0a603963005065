package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/selfora/backend/internal/database"
	"github.com/selfora/backend/internal/dto"
)

type HealthHandler struct {
	plugins int
}

func NewHealthHandler(plugins int) *HealthHandler {
	return &HealthHandler{plugins: plugins}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Plugins:   h.plugins,
	})
}
