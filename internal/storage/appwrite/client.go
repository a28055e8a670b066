// Package appwrite is hosted backend "A": user collections stored as
// documents in an Appwrite database, reached through the Appwrite Go SDK.
package appwrite

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	sdk "github.com/appwrite/sdk-for-go/appwrite"
	"github.com/appwrite/sdk-for-go/account"
	"github.com/appwrite/sdk-for-go/client"
	"github.com/appwrite/sdk-for-go/databases"
	"github.com/appwrite/sdk-for-go/health"
	"github.com/appwrite/sdk-for-go/users"
	"github.com/pkg/errors"
)

const requestTimeout = 15 * time.Second

func statusOf(err error) int {
	var apiErr *client.AppwriteError
	if errors.As(err, &apiErr) {
		return apiErr.GetStatusCode()
	}
	return 0
}

// Client bundles the SDK services the package uses. Sessions go through a
// second SDK client without the API key; Appwrite rejects keyed session calls.
type Client struct {
	databases *databases.Databases
	users     *users.Users
	sessions  *account.Account
	health    *health.Health

	databaseID         string
	collectionID       string
	tokensCollectionID string
}

type Option func(*client.Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client.Client) { c.Client = hc }
}

func NewClient(cfg *config.Config, opts ...Option) *Client {
	base := []client.ClientOption{
		sdk.WithEndpoint(strings.TrimRight(cfg.AppwriteEndpoint, "/")),
		sdk.WithProject(cfg.AppwriteProjectID),
		sdk.WithTimeout(requestTimeout),
	}
	keyed := append([]client.ClientOption{}, base...)
	if cfg.AppwriteAPIKey != "" {
		keyed = append(keyed, sdk.WithKey(cfg.AppwriteAPIKey))
	}

	server := sdk.NewClient(keyed...)
	public := sdk.NewClient(base...)
	for _, opt := range opts {
		opt(&server)
		opt(&public)
	}

	return &Client{
		databases:          sdk.NewDatabases(server),
		users:              sdk.NewUsers(server),
		sessions:           sdk.NewAccount(public),
		health:             sdk.NewHealth(server),
		databaseID:         cfg.AppwriteDatabaseID,
		collectionID:       cfg.AppwriteCollectionID,
		tokensCollectionID: cfg.AppwriteTokensCollectionID,
	}
}

// Ping checks that the endpoint answers for the configured project.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := call(ctx, c.health.Get); err != nil {
		return errors.Wrap(err, "appwrite: ping")
	}
	return nil
}

// call runs fn unless ctx is already done. SDK calls take no context, so a
// request in flight is bounded by requestTimeout only.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return fn()
}
