package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func sqliteStore(t *testing.T) *kv.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := kv.NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	return s
}

func TestBackend_StoresOneBlobPerKey(t *testing.T) {
	store := kv.NewMemoryStore()
	b := New(store)
	ctx := context.Background()

	_, err := b.SaveWorkout(ctx, models.Workout{Date: "2024-01-10", Label: "Leg Day", Duration: 45, Calories: 300})
	require.NoError(t, err)
	_, err = b.SaveProfile(ctx, models.UserProfile{Name: "Sam"})
	require.NoError(t, err)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{storage.KeyProfile, storage.KeyWorkouts}, keys)

	raw, err := store.GetItem(ctx, storage.KeyWorkouts)
	require.NoError(t, err)
	var stored []map[string]any
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "Leg Day", stored[0]["label"])
	assert.EqualValues(t, 45, stored[0]["duration"])
}

func TestBackend_SurvivesReopenOnSameStore(t *testing.T) {
	store := sqliteStore(t)
	ctx := context.Background()

	saved, err := New(store).SaveMindfulnessSession(ctx, models.MindfulnessSession{Title: "Body scan", Duration: 15, Date: "2024-01-11"})
	require.NoError(t, err)

	sessions, err := New(store).ListMindfulnessSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, saved.ID, sessions[0].ID)
	assert.Equal(t, "Body scan", sessions[0].Title)
}

func TestBackend_ProgramsAndMealPlansUpsertByID(t *testing.T) {
	b := New(sqliteStore(t))
	ctx := context.Background()

	p, err := b.SaveCustomProgram(ctx, models.CustomProgram{
		Name: "Push Pull Legs",
		Days: []models.ProgramDay{{Day: "Monday", Focus: "push", Exercises: []models.Exercise{{Name: "Bench", Sets: 4, Reps: "8"}}}},
	})
	require.NoError(t, err)

	p.Name = "PPL v2"
	_, err = b.SaveCustomProgram(ctx, *p)
	require.NoError(t, err)

	programs, err := b.ListCustomPrograms(ctx)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "PPL v2", programs[0].Name)
	assert.Equal(t, "Bench", programs[0].Days[0].Exercises[0].Name)

	plan, err := b.SaveCustomMealPlan(ctx, models.CustomMealPlan{ID: "cut-week-1", Name: "Cut"})
	require.NoError(t, err)
	assert.Equal(t, "cut-week-1", plan.ID)

	require.NoError(t, b.DeleteCustomMealPlan(ctx, "cut-week-1"))
	plans, err := b.ListCustomMealPlans(ctx)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGuestMode_Flag(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	on, err := GuestModeEnabled(ctx, store)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, SetGuestMode(ctx, store, true))
	on, err = GuestModeEnabled(ctx, store)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, SetGuestMode(ctx, store, false))
	on, err = GuestModeEnabled(ctx, store)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestClearDevice_RemovesEverything(t *testing.T) {
	store := kv.NewMemoryStore()
	b := New(store)
	ctx := context.Background()

	_, err := b.SaveSupplement(ctx, models.Supplement{Name: "Iron"})
	require.NoError(t, err)
	require.NoError(t, store.SetItem(ctx, storage.KeyGuestUser, []byte(`{"id":"x"}`)))
	require.NoError(t, SetGuestMode(ctx, store, true))

	require.NoError(t, b.ClearDevice(ctx))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
