// ABOUTME: ExerciseStore owns the exercises and sessions collections in a kv.Backend.
// ABOUTME: Every operation reads the whole slot and every mutation rewrites it.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/fitlog/internal/kv"
	"go.uber.org/zap"
)

// Slot keys in the backend.
const (
	KeyExercises = "exercises"
	KeySessions  = "sessions"
	KeyIntents   = "intents"
)

// AllKeys lists every slot the store writes.
var AllKeys = []string{KeyExercises, KeySessions, KeyIntents}

// allSlots labels errors from operations that touch every slot.
var allSlots = strings.Join(AllKeys, ",")

// ExerciseStore provides CRUD and derived queries over exercises and sessions.
// Mutations from one process are serialized; separate processes sharing a
// backend get last-writer-wins.
type ExerciseStore struct {
	backend kv.Backend
	log     *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
}

// Option configures an ExerciseStore.
type Option func(*ExerciseStore)

// WithLogger sets the logger used for degraded reads and recovery.
func WithLogger(l *zap.Logger) Option {
	return func(s *ExerciseStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source for createdAt and session dates.
func WithClock(now func() time.Time) Option {
	return func(s *ExerciseStore) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a store over backend without replaying pending intents.
func New(backend kv.Backend, opts ...Option) *ExerciseStore {
	s := &ExerciseStore{
		backend: backend,
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and completes any cascade delete left unfinished by
// a previous process.
func Open(ctx context.Context, backend kv.Backend, opts ...Option) (*ExerciseStore, error) {
	s := New(backend, opts...)
	if err := s.Recover(ctx); err != nil {
		return nil, fmt.Errorf("recover pending intents: %w", err)
	}
	return s, nil
}

// Backend returns the underlying backend.
func (s *ExerciseStore) Backend() kv.Backend {
	return s.backend
}

// Close closes the backend.
func (s *ExerciseStore) Close() error {
	return s.backend.Close()
}

func (s *ExerciseStore) timestamp() time.Time {
	return s.now().UTC()
}

// readSlot decodes the JSON array stored at key. An absent key is an empty
// collection.
func readSlot[T any](ctx context.Context, b kv.Backend, key string) ([]T, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, &StorageReadError{Slot: key, Err: err}
	}
	if !ok || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &StorageReadError{Slot: key, Err: fmt.Errorf("decode: %w", err)}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// loadSlot is readSlot with fail-soft semantics: errors are logged and an
// empty collection is returned.
func loadSlot[T any](ctx context.Context, s *ExerciseStore, key string) []T {
	items, err := readSlot[T](ctx, s.backend, key)
	if err != nil {
		s.log.Warn("degraded read, returning empty collection",
			zap.String("slot", key), zap.Error(err))
		return []T{}
	}
	return items
}

func encodeSlot[T any](key string, items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", &StorageWriteError{Slot: key, Err: fmt.Errorf("encode: %w", err)}
	}
	return string(data), nil
}

func writeSlot[T any](ctx context.Context, b kv.Backend, key string, items []T) error {
	data, err := encodeSlot(key, items)
	if err != nil {
		return err
	}
	if err := b.Set(ctx, key, data); err != nil {
		return &StorageWriteError{Slot: key, Err: err}
	}
	return nil
}

// ClearAll removes every slot. It is destructive and irreversible.
func (s *ExerciseStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.RemoveMany(ctx, AllKeys...); err != nil {
		return &StorageWriteError{Slot: allSlots, Err: err}
	}
	s.log.Info("all data cleared")
	return nil
}
