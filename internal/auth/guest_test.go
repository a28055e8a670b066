package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/local"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestService_StableIdentity(t *testing.T) {
	ctx := context.Background()
	g := NewGuestService(kv.NewMemoryStore())

	first, err := g.CurrentUser(ctx, "")
	require.NoError(t, err)
	assert.True(t, first.IsGuest)
	assert.Equal(t, GuestName, first.Name)
	assert.NotEmpty(t, first.ID)

	second, err := g.CurrentUser(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Name, second.Name)
}

func TestGuestService_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	first, err := NewGuestService(store).Identity(ctx)
	require.NoError(t, err)
	second, err := NewGuestService(store).Identity(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestGuestService_ConcurrentFirstAccess(t *testing.T) {
	ctx := context.Background()
	g := NewGuestService(kv.NewMemoryStore())

	ids := make([]string, 16)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := g.Identity(ctx)
			if err == nil {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestGuestService_LoginSetsFlagLogoutKeepsData(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	g := NewGuestService(store)

	sess, err := g.Login(ctx, "ignored@example.com", "whatever")
	require.NoError(t, err)
	assert.True(t, sess.User.IsGuest)
	assert.Empty(t, sess.AccessToken)

	on, err := local.GuestModeEnabled(ctx, store)
	require.NoError(t, err)
	assert.True(t, on)

	b := local.New(store)
	_, err = b.SaveSupplement(ctx, models.Supplement{Name: "Magnesium", Dosage: "200mg", Frequency: "daily"})
	require.NoError(t, err)

	require.NoError(t, g.Logout(ctx, ""))

	on, err = local.GuestModeEnabled(ctx, store)
	require.NoError(t, err)
	assert.False(t, on)

	supps, err := b.ListSupplements(ctx)
	require.NoError(t, err)
	assert.Len(t, supps, 1)

	identity, err := store.GetItem(ctx, storage.KeyGuestUser)
	require.NoError(t, err)
	assert.NotEmpty(t, identity)
}

func TestGuestService_ReplacesCorruptIdentity(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.SetItem(ctx, storage.KeyGuestUser, []byte("{not json")))

	u, err := NewGuestService(store).Identity(ctx)
	require.NoError(t, err)
	assert.True(t, u.IsGuest)
	assert.NotEmpty(t, u.ID)
}
