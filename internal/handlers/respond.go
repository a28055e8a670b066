package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// Feature mounts the routes of one area of the app. The router already
// resolves the caller's identity.
type Feature interface {
	ID() string
	RegisterRoutes(router fiber.Router)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func invalidBody(c *fiber.Ctx) error {
	return badRequest(c, "Invalid request body")
}

// storageFailure answers a failed backend call. Server side failures get a
// generic message and a log line; nothing about the medium leaks out.
func storageFailure(c *fiber.Ctx, svc *provider.Services, op string, err error) error {
	status := fiber.StatusInternalServerError
	message := "Failed to access stored data"
	switch {
	case errors.Is(err, storage.ErrInvalidRecord):
		return badRequest(c, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		status, message = fiber.StatusNotFound, "Record not found"
	case errors.Is(err, storage.ErrNotConfigured):
		status, message = fiber.StatusServiceUnavailable, "Storage backend is not configured"
	case errors.Is(err, storage.ErrRemoteCall):
		status, message = fiber.StatusBadGateway, "Storage backend is unreachable"
	}

	if status >= 500 {
		attrs := []any{
			"backend", svc.Kind,
			"user_id", middleware.GetUserID(c),
			"op", op,
			"error", err.Error(),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", rid)
		}
		var se *storage.Error
		if errors.As(err, &se) && se.Key != "" {
			attrs = append(attrs, "collection", se.Key)
		}
		slog.Error("storage operation failed", attrs...)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func backendFor(c *fiber.Ctx, svc *provider.Services) storage.Backend {
	return svc.Storage(middleware.GetUserID(c))
}
