// Package kv provides device-local key-value media modelled on browser
// local storage: string keys, opaque values, nothing else.
package kv

import "context"

type Store interface {
	// GetItem returns nil, nil when key is absent.
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, keys ...string) error
	Keys(ctx context.Context) ([]string, error)
}
