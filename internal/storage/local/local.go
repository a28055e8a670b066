// Package local is the device backend: every collection is a JSON blob under
// its collection key in a kv.Store.
package local

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
)

type Backend struct {
	*storage.BlobBackend
	kv kv.Store
}

var _ storage.Backend = (*Backend)(nil)

func New(store kv.Store, opts ...storage.Option) *Backend {
	return &Backend{
		BlobBackend: storage.NewBlobBackend(blobs{store}, opts...),
		kv:          store,
	}
}

// ClearDevice removes user data and the device state (guest identity and
// guest flag), returning the install to its first-run state.
func (b *Backend) ClearDevice(ctx context.Context) error {
	if err := b.ClearAll(ctx); err != nil {
		return err
	}
	if err := b.kv.RemoveItem(ctx, storage.KeyGuestUser, storage.KeyGuestMode); err != nil {
		return storage.Persistence("clear", storage.KeyGuestUser, err)
	}
	return nil
}

// GuestModeEnabled reports whether the user chose guest mode on this device.
func GuestModeEnabled(ctx context.Context, store kv.Store) (bool, error) {
	v, err := store.GetItem(ctx, storage.KeyGuestMode)
	if err != nil {
		return false, storage.Persistence("load", storage.KeyGuestMode, err)
	}
	return string(v) == "true", nil
}

func SetGuestMode(ctx context.Context, store kv.Store, enabled bool) error {
	var err error
	if enabled {
		err = store.SetItem(ctx, storage.KeyGuestMode, []byte("true"))
	} else {
		err = store.RemoveItem(ctx, storage.KeyGuestMode)
	}
	if err != nil {
		return storage.Persistence("save", storage.KeyGuestMode, err)
	}
	return nil
}

// blobs adapts a kv.Store to storage.BlobStore.
type blobs struct {
	store kv.Store
}

func (b blobs) Load(ctx context.Context, key string) ([]byte, error) {
	return b.store.GetItem(ctx, key)
}

func (b blobs) Save(ctx context.Context, key string, data []byte) error {
	return b.store.SetItem(ctx, key, data)
}

func (b blobs) Delete(ctx context.Context, keys ...string) error {
	return b.store.RemoveItem(ctx, keys...)
}
