package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/provider"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// Identity resolves the caller. With the device backend every request acts
// as the guest; hosted backends require a bearer access token.
func Identity(svc *provider.Services, cfg *config.Config) fiber.Handler {
	if !svc.Remote() {
		return guestIdentity(svc.Auth)
	}
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return unauthorized(c)
			}
			setUser(c, sub)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func guestIdentity(svc auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.CurrentUser(c.UserContext(), "")
		if err != nil {
			slog.Error("guest identity unavailable", "backend", provider.KindLocal, "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Device storage unavailable",
			})
		}
		setUser(c, u.ID)
		return c.Next()
	}
}

func setUser(c *fiber.Ctx, userID string) {
	c.Locals(userIDKey, userID)
	c.SetUserContext(auth.WithUserID(c.UserContext(), userID))
}

// GetUserID returns the caller resolved by Identity.
func GetUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
