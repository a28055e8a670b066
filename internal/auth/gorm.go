package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GormDirectory keeps accounts in the accounts table next to the Postgres
// user data.
type GormDirectory struct {
	db *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) Create(ctx context.Context, email, password, name string) (*Account, error) {
	var existing models.Account
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acc := models.Account{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hash),
		Name:     name,
	}
	if err := d.db.WithContext(ctx).Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return toAccount(&acc), nil
}

func (d *GormDirectory) Verify(ctx context.Context, email, password string) (*Account, error) {
	var acc models.Account
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&acc).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return toAccount(&acc), nil
}

func (d *GormDirectory) Get(ctx context.Context, id string) (*Account, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var acc models.Account
	if err := d.db.WithContext(ctx).First(&acc, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return toAccount(&acc), nil
}

func toAccount(m *models.Account) *Account {
	return &Account{
		ID:        m.ID.String(),
		Email:     m.Email,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Save(ctx context.Context, t RefreshToken) error {
	return s.db.WithContext(ctx).Create(&models.RefreshToken{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: t.ExpiresAt,
	}).Error
}

func (s *GormTokenStore) Consume(ctx context.Context, hash string) (*RefreshToken, error) {
	var stored models.RefreshToken
	if err := s.db.WithContext(ctx).Where("token_hash = ? AND revoked = false", hash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}
	res := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = false", stored.ID).
		Update("revoked", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// lost a race with a concurrent refresh
		return nil, ErrInvalidToken
	}
	return &RefreshToken{
		ID:        stored.ID,
		UserID:    stored.UserID,
		TokenHash: stored.TokenHash,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (s *GormTokenStore) Revoke(ctx context.Context, hash string) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}
