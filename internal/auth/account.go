package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

// Account is a registered user as held by a Directory.
type Account struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

func (a *Account) user() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, CreatedAt: a.CreatedAt}
}

// Directory owns accounts and their passwords.
type Directory interface {
	// Create returns ErrEmailTaken when email is registered.
	Create(ctx context.Context, email, password, name string) (*Account, error)
	// Verify returns ErrInvalidCredentials on unknown email or wrong password.
	Verify(ctx context.Context, email, password string) (*Account, error)
	// Get returns ErrUserNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Account, error)
}

type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	Save(ctx context.Context, t RefreshToken) error
	// Consume revokes the live token with hash and returns it. Unknown or
	// already revoked tokens yield ErrInvalidToken.
	Consume(ctx context.Context, hash string) (*RefreshToken, error)
	Revoke(ctx context.Context, hash string) error
}

// AccountService authenticates against a Directory and issues HS256 access
// tokens plus rotating refresh tokens.
type AccountService struct {
	dir           Directory
	tokens        TokenStore
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
	newID         func() string
}

var _ Service = (*AccountService)(nil)

func NewAccountService(dir Directory, tokens TokenStore, cfg *config.Config) (*AccountService, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, storage.NotConfigured("auth", "JWT_SECRET is not set")
	}
	return &AccountService{
		dir:           dir,
		tokens:        tokens,
		secret:        []byte(cfg.JWTSecret),
		accessExpiry:  cfg.JWTAccessExpiry,
		refreshExpiry: cfg.JWTRefreshExpiry,
		now:           time.Now,
		newID:         storage.NewID,
	}, nil
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (*User, error) {
	acc, err := s.dir.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := acc.user()
	return &u, nil
}

func (s *AccountService) CreateAccount(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	acc, err := s.dir.Create(ctx, email, password, name)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, acc)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	acc, err := s.dir.Verify(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, acc)
}

func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	stored, err := s.tokens.Consume(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, err
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	acc, err := s.dir.Get(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	return s.issue(ctx, acc)
}

func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, hashToken(refreshToken))
}

// ParseAccessToken validates an access token and returns its subject.
func (s *AccountService) ParseAccessToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("access token has no subject")
	}
	return sub, nil
}

// Secret is the HS256 signing key, shared with the JWT middleware.
func (s *AccountService) Secret() []byte {
	return s.secret
}

func (s *AccountService) issue(ctx context.Context, acc *Account) (*Session, error) {
	access, err := s.accessToken(acc)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshToken(ctx, acc)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: acc.user()}, nil
}

func (s *AccountService) accessToken(acc *Account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"email": acc.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *AccountService) refreshToken(ctx context.Context, acc *Account) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := RefreshToken{
		ID:        s.newID(),
		UserID:    acc.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: s.now().Add(s.refreshExpiry),
	}
	if err := s.tokens.Save(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
