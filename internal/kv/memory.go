// ABOUTME: In-memory Backend used for tests and the "memory" backend setting.
// ABOUTME: Supports copy-on-write transactions and per-key fault injection.
package kv

import (
	"context"
	"maps"
	"sync"
)

// MemoryBackend keeps all values in a map. It is safe for concurrent use.
type MemoryBackend struct {
	mu       sync.RWMutex
	data     map[string]string
	failGet  map[string]error
	failSet  map[string]error
	setCalls int
}

var (
	_ Backend       = (*MemoryBackend)(nil)
	_ Transactional = (*MemoryBackend)(nil)
)

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:    make(map[string]string),
		failGet: make(map[string]error),
		failSet: make(map[string]error),
	}
}

// FailGet makes reads of key return err. A nil err clears the fault.
func (m *MemoryBackend) FailGet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failGet, key)
		return
	}
	m.failGet[key] = err
}

// FailSet makes writes of key return err. A nil err clears the fault.
func (m *MemoryBackend) FailSet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failSet, key)
		return
	}
	m.failSet[key] = err
}

// SetCalls returns how many Set calls reached the backend.
func (m *MemoryBackend) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setCalls
}

// Get implements Backend.
func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failGet[key]; err != nil {
		return "", false, err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if err := m.failSet[key]; err != nil {
		return err
	}
	m.data[key] = value
	return nil
}

// RemoveMany implements Backend.
func (m *MemoryBackend) RemoveMany(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if err := m.failSet[k]; err != nil {
			return err
		}
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Update implements Transactional. Writes go to a copy that replaces the
// live map only when fn succeeds.
func (m *MemoryBackend) Update(ctx context.Context, fn func(w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	w := &memoryWriter{m: m, data: maps.Clone(m.data)}
	if err := fn(w); err != nil {
		return err
	}
	m.data = w.data
	return nil
}

// Keys returns the stored keys.
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}

type memoryWriter struct {
	m    *MemoryBackend
	data map[string]string
}

func (w *memoryWriter) Set(key, value string) error {
	w.m.setCalls++
	if err := w.m.failSet[key]; err != nil {
		return err
	}
	w.data[key] = value
	return nil
}

func (w *memoryWriter) Remove(keys ...string) error {
	for _, k := range keys {
		if err := w.m.failSet[k]; err != nil {
			return err
		}
		delete(w.data, k)
	}
	return nil
}
