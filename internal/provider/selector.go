// Package provider picks the storage backend and matching auth service once
// per process and hands them to the rest of the application.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/appwrite"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/kv"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/local"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage/postgres"
	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

type Kind string

const (
	KindLocal    Kind = "local"
	KindSupabase Kind = "supabase"
	KindAppwrite Kind = "appwrite"
)

// Services is the bound backend together with its auth service.
type Services struct {
	Kind Kind
	Auth auth.Service
	// FallbackErr is set when a configured remote backend failed to
	// initialize and the device backend was bound instead. FallbackFrom
	// names that backend.
	FallbackErr  error
	FallbackFrom Kind

	open    func(userID string) storage.Backend
	ping    func(ctx context.Context) error
	db      *gorm.DB
	closers []func() error
}

// NewServices binds an auth service and a per-user backend opener.
func NewServices(kind Kind, authService auth.Service, open func(userID string) storage.Backend) *Services {
	return &Services{Kind: kind, Auth: authService, open: open}
}

// Storage returns the backend for userID. The device backend has a single
// user and ignores it.
func (s *Services) Storage(userID string) storage.Backend {
	return s.open(userID)
}

// Remote reports whether a hosted backend is bound.
func (s *Services) Remote() bool {
	return s.Kind != KindLocal
}

// DB is the Postgres handle when the Supabase backend is bound, else nil.
func (s *Services) DB() *gorm.DB {
	return s.db
}

func (s *Services) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Services) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Connector initializes one remote backend.
type Connector func(ctx context.Context, cfg *config.Config) (*Services, error)

type Option func(*Selector)

func WithSupabase(c Connector) Option {
	return func(s *Selector) { s.supabase = c }
}

func WithAppwrite(c Connector) Option {
	return func(s *Selector) { s.appwrite = c }
}

type Selector struct {
	cfg      *config.Config
	local    kv.Store
	supabase Connector
	appwrite Connector

	once     sync.Once
	services *Services
}

func NewSelector(cfg *config.Config, localStore kv.Store, opts ...Option) *Selector {
	s := &Selector{
		cfg:      cfg,
		local:    localStore,
		supabase: ConnectSupabase,
		appwrite: ConnectAppwrite,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve binds a backend on first call and returns the same Services on
// every later call. Priority: guest flag, Supabase, Appwrite, device.
func (s *Selector) Resolve(ctx context.Context) *Services {
	s.once.Do(func() {
		s.services = s.resolve(ctx)
		slog.Info("storage backend selected", "backend", s.services.Kind)
	})
	return s.services
}

func (s *Selector) resolve(ctx context.Context) *Services {
	guest, err := local.GuestModeEnabled(ctx, s.local)
	if err != nil {
		slog.Warn("guest flag unreadable", "backend", KindLocal, "error", err)
	}
	if guest {
		return s.localServices()
	}

	if s.cfg.SupabaseConfigured() {
		return s.connect(ctx, KindSupabase, s.supabase)
	}
	if s.cfg.AppwriteConfigured() {
		return s.connect(ctx, KindAppwrite, s.appwrite)
	}
	return s.localServices()
}

func (s *Selector) connect(ctx context.Context, kind Kind, c Connector) *Services {
	svc, err := c(ctx, s.cfg)
	if err == nil {
		return svc
	}

	slog.Warn("remote backend unavailable, using device storage", "backend", kind, "error", err)
	sentry.CaptureException(err)

	fallback := s.localServices()
	fallback.FallbackErr = fmt.Errorf("%s: %w", kind, err)
	fallback.FallbackFrom = kind
	return fallback
}

func (s *Selector) localServices() *Services {
	backend := local.New(s.local)
	svc := NewServices(KindLocal, auth.NewGuestService(s.local), func(string) storage.Backend { return backend })
	svc.ping = func(ctx context.Context) error {
		_, err := s.local.Keys(ctx)
		return err
	}
	return svc
}

func ConnectSupabase(ctx context.Context, cfg *config.Config) (*Services, error) {
	db, err := database.Connect(cfg.SupabaseDBURL)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	svc, err := auth.NewAccountService(auth.NewGormDirectory(db), auth.NewGormTokenStore(db), cfg)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}

	opener := postgres.NewOpener(db)
	return &Services{
		Kind:    KindSupabase,
		Auth:    svc,
		open:    opener.Open,
		ping:    func(ctx context.Context) error { return database.Ping(ctx, db) },
		db:      db,
		closers: []func() error{func() error { return database.Close(db) }},
	}, nil
}

func ConnectAppwrite(ctx context.Context, cfg *config.Config) (*Services, error) {
	client := appwrite.NewClient(cfg)
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	svc, err := auth.NewAccountService(appwrite.NewDirectory(client), appwrite.NewTokenStore(client), cfg)
	if err != nil {
		return nil, err
	}

	opener := appwrite.NewOpener(client)
	return &Services{
		Kind: KindAppwrite,
		Auth: svc,
		open: opener.Open,
		ping: client.Ping,
	}, nil
}
