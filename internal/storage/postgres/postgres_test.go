package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

const (
	selectCollection = `SELECT \* FROM "user_collections" WHERE user_id = \$1 AND collection = \$2`
	insertCollection = `INSERT INTO "user_collections"`
	deleteCollection = `DELETE FROM "user_collections" WHERE user_id = \$1 AND collection IN`
)

var collectionColumns = []string{"user_id", "collection", "data", "created_at", "updated_at"}

func TestStore_LoadAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectCollection).WillReturnRows(sqlmock.NewRows(collectionColumns))

	data, err := NewStore(db, "user-1").Load(context.Background(), storage.KeyWorkouts)
	require.NoError(t, err)
	assert.Nil(t, data)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadFound(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	mock.ExpectQuery(selectCollection).WillReturnRows(
		sqlmock.NewRows(collectionColumns).AddRow("user-1", storage.KeyWorkouts, []byte(`[{"id":"w1"}]`), now, now),
	)

	data, err := NewStore(db, "user-1").Load(context.Background(), storage.KeyWorkouts)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"w1"}]`, string(data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectCollection).WillReturnError(errors.New("connection reset"))

	_, err := NewStore(db, "user-1").Load(context.Background(), storage.KeyWorkouts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: load workouts")
}

func TestStore_DeleteScopedToUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(deleteCollection).
		WithArgs("user-1", storage.KeyWorkouts, storage.KeySupplements).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := NewStore(db, "user-1").Delete(context.Background(), storage.KeyWorkouts, storage.KeySupplements)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_SaveWorkoutUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectCollection).WillReturnRows(sqlmock.NewRows(collectionColumns))
	mock.ExpectExec(insertCollection + `.*ON CONFLICT \("user_id","collection"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	b := NewOpener(db).Open("user-1")
	w, err := b.SaveWorkout(context.Background(), models.Workout{Date: "2024-01-10", Label: "Leg Day", Duration: 45, Calories: 300})
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_SaveFailureIsPersistenceError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(insertCollection).WillReturnError(errors.New("disk full"))

	b := NewOpener(db).Open("user-1")
	_, err := b.SaveProfile(context.Background(), models.UserProfile{Name: "Kim"})
	assert.ErrorIs(t, err, storage.ErrPersistence)
}

func TestOpener_ReusesBackendPerUser(t *testing.T) {
	db, _ := newMockDB(t)
	o := NewOpener(db)

	assert.Same(t, o.Open("a"), o.Open("a"))
	assert.NotSame(t, o.Open("a"), o.Open("b"))
}
