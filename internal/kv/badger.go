// ABOUTME: Badger-backed Backend for embedded, transactional key-value storage.
// ABOUTME: Badger's internal logging is routed through zap.
package kv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerBackend stores slots in a Badger database.
type BadgerBackend struct {
	db *badger.DB
}

var (
	_ Backend       = (*BadgerBackend)(nil)
	_ Transactional = (*BadgerBackend)(nil)
)

// OpenBadger opens or creates a Badger database in dir.
func OpenBadger(dir string, logger *zap.Logger) (*BadgerBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir), logger)
}

// OpenBadgerInMemory opens a Badger database that is never written to disk.
func OpenBadgerInMemory(logger *zap.Logger) (*BadgerBackend, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), logger)
}

func openBadger(opts badger.Options, logger *zap.Logger) (*BadgerBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// Get implements Backend.
func (b *BadgerBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		val []byte
		ok  bool
	)
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		ok = true
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(val), ok, nil
}

// Set implements Backend.
func (b *BadgerBackend) Set(ctx context.Context, key, value string) error {
	return b.Update(ctx, func(w Writer) error {
		return w.Set(key, value)
	})
}

// RemoveMany implements Backend.
func (b *BadgerBackend) RemoveMany(ctx context.Context, keys ...string) error {
	return b.Update(ctx, func(w Writer) error {
		return w.Remove(keys...)
	})
}

// Update implements Transactional.
func (b *BadgerBackend) Update(ctx context.Context, fn func(w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(badgerWriter{txn: txn})
	})
}

type badgerWriter struct {
	txn *badger.Txn
}

func (w badgerWriter) Set(key, value string) error {
	if err := w.txn.Set([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (w badgerWriter) Remove(keys ...string) error {
	for _, k := range keys {
		if err := w.txn.Delete([]byte(k)); err != nil {
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	return nil
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
