// ABOUTME: Key-value backend contract used as the store's only durability mechanism.
// ABOUTME: Backends may optionally commit several writes atomically via Transactional.
package kv

import (
	"context"
	"errors"
)

// ErrReadOnly is returned by writes against a backend opened read-only.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// Backend is a string key-value store with no multi-key atomicity guarantee.
type Backend interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// RemoveMany deletes every listed key. Missing keys are ignored.
	RemoveMany(ctx context.Context, keys ...string) error
	Close() error
}

// Writer receives the writes of a single transaction.
type Writer interface {
	Set(key, value string) error
	Remove(keys ...string) error
}

// Transactional is implemented by backends that can commit several writes
// as one unit. If fn returns an error nothing is committed.
type Transactional interface {
	Update(ctx context.Context, fn func(w Writer) error) error
}

// IsTransactional reports whether b supports atomic multi-key updates.
func IsTransactional(b Backend) bool {
	_, ok := b.(Transactional)
	return ok
}
