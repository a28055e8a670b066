package handlers

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	services *provider.Services
	advisor  *advisor.Service
}

func NewHealthHandler(services *provider.Services, adv *advisor.Service) *HealthHandler {
	return &HealthHandler{services: services, advisor: adv}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storageStatus := "ok"
	if err := h.services.Ping(c.UserContext()); err != nil {
		storageStatus = "unhealthy"
		slog.Error("storage health check failed",
			"backend", h.services.Kind,
			"error", err.Error(),
			"request_id", c.Locals("requestid"),
		)
	}

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Backend:   string(h.services.Kind),
		Storage:   storageStatus,
		Advisor:   h.advisor.Configured(),
	}
	if h.services.FallbackErr != nil {
		resp.Fallback = string(h.services.FallbackFrom) + " unavailable"
	}
	return c.JSON(resp)
}
