package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/local"
)

const GuestName = "Guest User"

// GuestService gives the device backend an authenticated-user shape. The
// identity is created on first access, stored under storage.KeyGuestUser and
// returned unchanged afterwards.
type GuestService struct {
	mu    sync.Mutex
	store kv.Store
	now   func() time.Time
	newID func() string
}

var _ Service = (*GuestService)(nil)

func NewGuestService(store kv.Store) *GuestService {
	return &GuestService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: storage.NewID,
	}
}

// Identity loads the guest identity, creating it when the device has none.
func (g *GuestService) Identity(ctx context.Context) (*User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	data, err := g.store.GetItem(ctx, storage.KeyGuestUser)
	if err != nil {
		return nil, storage.Persistence("load", storage.KeyGuestUser, err)
	}
	if len(data) > 0 {
		var u User
		if err := json.Unmarshal(data, &u); err == nil && u.ID != "" {
			u.IsGuest = true
			return &u, nil
		}
		// unreadable identity: replace it
	}

	u := User{
		ID:        "guest-" + g.newID(),
		Name:      GuestName,
		IsGuest:   true,
		CreatedAt: g.now(),
	}
	data, err = json.Marshal(u)
	if err != nil {
		return nil, storage.Persistence("encode", storage.KeyGuestUser, err)
	}
	if err := g.store.SetItem(ctx, storage.KeyGuestUser, data); err != nil {
		return nil, storage.Persistence("save", storage.KeyGuestUser, err)
	}
	return &u, nil
}

func (g *GuestService) CurrentUser(ctx context.Context, _ string) (*User, error) {
	return g.Identity(ctx)
}

// Login switches the device into guest mode. Credentials are ignored.
func (g *GuestService) Login(ctx context.Context, _, _ string) (*Session, error) {
	return g.enter(ctx)
}

func (g *GuestService) CreateAccount(ctx context.Context, _, _, _ string) (*Session, error) {
	return g.enter(ctx)
}

func (g *GuestService) Refresh(ctx context.Context, _ string) (*Session, error) {
	u, err := g.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{User: *u}, nil
}

// Logout clears the guest flag only; the guest's data stays on the device.
func (g *GuestService) Logout(ctx context.Context, _ string) error {
	return local.SetGuestMode(ctx, g.store, false)
}

func (g *GuestService) enter(ctx context.Context) (*Session, error) {
	if err := local.SetGuestMode(ctx, g.store, true); err != nil {
		return nil, err
	}
	u, err := g.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{User: *u}, nil
}
