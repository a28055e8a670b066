package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

// DataHandler covers the whole-account operations: bulk clear and the
// advisor, which reads across every collection.
type DataHandler struct {
	services *provider.Services
	advisor  *advisor.Service
}

func NewDataHandler(services *provider.Services, adv *advisor.Service) *DataHandler {
	return &DataHandler{services: services, advisor: adv}
}

func (h *DataHandler) ID() string { return "data" }

func (h *DataHandler) RegisterRoutes(router fiber.Router) {
	router.Delete("/data", h.ClearAll)
	router.Post("/advisor/chat", h.Chat)
}

func (h *DataHandler) ClearAll(c *fiber.Ctx) error {
	if err := backendFor(c, h.services).ClearAll(c.UserContext()); err != nil {
		return storageFailure(c, h.services, "clear all", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DataHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.Message == "" {
		return badRequest(c, "message is required")
	}

	reply, err := h.advisor.Chat(c.UserContext(), backendFor(c, h.services), req.History, req.Message)
	if errors.Is(err, advisor.ErrNoProvider) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "AI advisor is not configured",
		})
	}
	if err != nil {
		slog.Error("advisor chat failed", "backend", h.services.Kind, "user_id", middleware.GetUserID(c), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "AI advisor is unavailable, try again later",
		})
	}
	return c.JSON(reply)
}
