// Package postgres stores user collections in a Postgres database (Supabase),
// one jsonb row per user and collection key.
package postgres

import (
	"context"
	"sync"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a storage.BlobStore scoped to one user.
type Store struct {
	db     *gorm.DB
	userID string
}

var _ storage.BlobStore = (*Store)(nil)

// forUser returns a GORM scope that filters by user_id.
func forUser(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func NewStore(db *gorm.DB, userID string) *Store {
	return &Store{db: db, userID: userID}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var row models.UserCollection
	err := s.db.WithContext(ctx).
		Scopes(forUser(s.userID)).
		Where("collection = ?", key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "postgres: load %s", key)
	}
	return row.Data, nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	row := models.UserCollection{
		UserID:     s.userID,
		Collection: key,
		Data:       datatypes.JSON(data),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "collection"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return errors.Wrapf(err, "postgres: save %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Scopes(forUser(s.userID)).
		Where("collection IN ?", keys).
		Delete(&models.UserCollection{}).Error
	if err != nil {
		return errors.Wrap(err, "postgres: delete collections")
	}
	return nil
}

// Opener hands out one backend per user so that writes of the same user
// inside this process are serialized by the same BlobBackend.
type Opener struct {
	db       *gorm.DB
	mu       sync.Mutex
	backends map[string]*storage.BlobBackend
}

func NewOpener(db *gorm.DB) *Opener {
	return &Opener{db: db, backends: make(map[string]*storage.BlobBackend)}
}

func (o *Opener) Open(userID string) storage.Backend {
	o.mu.Lock()
	defer o.mu.Unlock()

	if b, ok := o.backends[userID]; ok {
		return b
	}
	b := storage.NewBlobBackend(NewStore(o.db, userID))
	o.backends[userID] = b
	return b
}
