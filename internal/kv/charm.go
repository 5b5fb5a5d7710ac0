// ABOUTME: Charm KV Backend with end-to-end encrypted cloud sync.
// ABOUTME: Syncs after each write; refuses writes while another process holds the lock.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
)

// DefaultCharmHost is the Charm server used when none is configured.
const DefaultCharmHost = "charm.2389.dev"

// CharmBackend stores slots in a Charm KV database.
type CharmBackend struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

var _ Backend = (*CharmBackend)(nil)

// OpenCharm opens the named Charm KV database against host and pulls
// remote changes unless the database is read-only.
func OpenCharm(name, host string) (*CharmBackend, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	// Set server before opening KV
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	if !db.IsReadOnly() {
		_ = db.Sync()
	}

	return &CharmBackend{kv: db, autoSync: true}, nil
}

// Close closes the KV database connection.
func (c *CharmBackend) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *CharmBackend) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *CharmBackend) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *CharmBackend) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *CharmBackend) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// ID returns the Charm user ID for the current account.
func (c *CharmBackend) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Get implements Backend.
func (c *CharmBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(val), true, nil
}

// Set implements Backend.
func (c *CharmBackend) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	if err := c.kv.Set([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// RemoveMany implements Backend. Keys are deleted one at a time.
func (c *CharmBackend) RemoveMany(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}
	for _, k := range keys {
		if err := c.kv.Delete([]byte(k)); err != nil {
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	c.syncIfEnabled()
	return nil
}

// syncIfEnabled calls Sync if autoSync is enabled. Callers hold mu.
func (c *CharmBackend) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}
