package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	services *provider.Services
}

func NewAuthHandler(services *provider.Services) *AuthHandler {
	return &AuthHandler{services: services}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sess, err := h.services.Auth.CreateAccount(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return h.authFailure(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAuthResponse(sess))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sess, err := h.services.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return h.authFailure(c, err)
	}
	return c.JSON(toAuthResponse(sess))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	sess, err := h.services.Auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return h.authFailure(c, err)
	}
	return c.JSON(toAuthResponse(sess))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	if err := h.services.Auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return storageFailure(c, h.services, "logout", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, err := h.services.Auth.CurrentUser(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.authFailure(c, err)
	}
	return c.JSON(toUserResponse(u))
}

func (h *AuthHandler) authFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "User not found"})
	case errors.Is(err, auth.ErrInvalidInput):
		return badRequest(c, err.Error())
	}
	return storageFailure(c, h.services, "auth", err)
}

func toAuthResponse(s *auth.Session) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         toUserResponse(&s.User),
	}
}

func toUserResponse(u *auth.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsGuest: u.IsGuest}
}
