// ABOUTME: Conformance tests shared by every Backend implementation.
// ABOUTME: Runs the same suite against memory, SQLite, and in-memory Badger.
package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type backendFactory func(t *testing.T) Backend

func backendFactories() map[string]backendFactory {
	return map[string]backendFactory{
		"memory": func(t *testing.T) Backend {
			return NewMemoryBackend()
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := OpenSQLite(filepath.Join(t.TempDir(), "fitlog.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		},
		"badger": func(t *testing.T) Backend {
			b, err := OpenBadgerInMemory(zaptest.NewLogger(t))
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		},
	}
}

func TestBackendGetMissing(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			v, ok, err := b.Get(context.Background(), "exercises")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, v)
		})
	}
}

func TestBackendSetGetOverwrite(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			ctx := context.Background()

			require.NoError(t, b.Set(ctx, "exercises", `[{"id":"1"}]`))
			require.NoError(t, b.Set(ctx, "exercises", `[]`))

			v, ok, err := b.Get(ctx, "exercises")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, v)
		})
	}
}

func TestBackendRemoveMany(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			ctx := context.Background()

			require.NoError(t, b.Set(ctx, "exercises", "a"))
			require.NoError(t, b.Set(ctx, "sessions", "b"))
			require.NoError(t, b.Set(ctx, "other", "c"))

			require.NoError(t, b.RemoveMany(ctx, "exercises", "sessions", "missing"))

			for _, k := range []string{"exercises", "sessions"} {
				_, ok, err := b.Get(ctx, k)
				require.NoError(t, err)
				assert.False(t, ok, "%s should be removed", k)
			}
			v, ok, err := b.Get(ctx, "other")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "c", v)
		})
	}
}

func TestBackendUpdateAtomic(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			ctx := context.Background()
			tx, ok := b.(Transactional)
			require.True(t, ok, "%s should be transactional", name)

			require.NoError(t, b.Set(ctx, "exercises", "before"))

			boom := errors.New("boom")
			err := tx.Update(ctx, func(w Writer) error {
				if err := w.Set("exercises", "after"); err != nil {
					return err
				}
				if err := w.Set("sessions", "after"); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			v, _, err := b.Get(ctx, "exercises")
			require.NoError(t, err)
			assert.Equal(t, "before", v, "failed transaction must not commit")
			_, ok, err = b.Get(ctx, "sessions")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, tx.Update(ctx, func(w Writer) error {
				if err := w.Set("sessions", "s"); err != nil {
					return err
				}
				return w.Remove("exercises")
			}))
			_, ok, err = b.Get(ctx, "exercises")
			require.NoError(t, err)
			assert.False(t, ok)
			v, _, err = b.Get(ctx, "sessions")
			require.NoError(t, err)
			assert.Equal(t, "s", v)
		})
	}
}

func TestBackendCanceledContext(t *testing.T) {
	for name, open := range backendFactories() {
		t.Run(name, func(t *testing.T) {
			b := open(t)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			assert.Error(t, b.Set(ctx, "exercises", "x"))
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fitlog.db")
	ctx := context.Background()

	b, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "sessions", `[1,2,3]`))
	require.NoError(t, b.Close())

	b, err = OpenSQLite(path)
	require.NoError(t, err)
	defer b.Close()

	v, ok, err := b.Get(ctx, "sessions")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2,3]`, v)
	assert.Equal(t, path, b.Path())
}

func TestMemoryFaultInjection(t *testing.T) {
	m := NewMemoryBackend()
	ctx := context.Background()
	boom := errors.New("disk full")

	m.FailSet("sessions", boom)
	require.ErrorIs(t, m.Set(ctx, "sessions", "x"), boom)
	require.NoError(t, m.Set(ctx, "exercises", "x"))

	m.FailSet("sessions", nil)
	require.NoError(t, m.Set(ctx, "sessions", "x"))

	m.FailGet("exercises", boom)
	_, _, err := m.Get(ctx, "exercises")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, m.SetCalls())
}

func TestIsTransactional(t *testing.T) {
	assert.True(t, IsTransactional(NewMemoryBackend()))
	assert.False(t, IsTransactional(struct{ Backend }{NewMemoryBackend()}))
}
