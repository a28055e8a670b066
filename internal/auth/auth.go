// Package auth provides the authentication services used by the API: a guest
// identity for the device backend and a token-based account service for the
// hosted backends. Both satisfy Service so handlers never branch on the
// bound backend.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("email required and password must be at least 8 characters")
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	IsGuest   bool      `json:"isGuest"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is returned by login, account creation and refresh. Guest sessions
// carry no tokens.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}

type Service interface {
	// CurrentUser resolves userID to a user. The guest service ignores userID.
	CurrentUser(ctx context.Context, userID string) (*User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	CreateAccount(ctx context.Context, email, password, name string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
}

type ctxKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
