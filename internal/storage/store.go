package storage

import (
	"context"

	ierr "github.com/printstudio/docengine/internal/errors"
)

// Keys of the persisted envelopes
const (
	KeyTemplates = "templates:v1"
	KeyBranding  = "branding:v1"
)

// Store is a durable key/value store holding one JSON envelope per key
type Store interface {
	// Get returns the value stored under key or an error marked ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying connection
	Close() error
}

func notFound(key string) error {
	return ierr.NewErrorf("key %s not found", key).
		WithHintf("Nothing is stored under %s", key).
		Mark(ierr.ErrNotFound)
}

func storageFailed(err error, op, key string) error {
	return ierr.WithError(err).
		WithHint("Storage backend failed").
		WithMessagef("%s key:%s", op, key).
		Mark(ierr.ErrStorage)
}
