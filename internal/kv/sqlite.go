// ABOUTME: SQLite-backed Backend storing each slot as one row of a kv table.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) with WAL pragmas.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteBackend wraps the SQLite database connection.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string
}

var (
	_ Backend       = (*SQLiteBackend)(nil)
	_ Transactional = (*SQLiteBackend)(nil)
)

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(dbPath string) (*SQLiteBackend, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// ":memory:" databases are per-connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteBackend{db: db, dbPath: dbPath}

	if err := s.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteBackend) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteBackend) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Get implements Backend.
func (s *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements Backend.
func (s *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	return sqliteSet(ctx, s.db, key, value)
}

// RemoveMany implements Backend.
func (s *SQLiteBackend) RemoveMany(ctx context.Context, keys ...string) error {
	return sqliteRemove(ctx, s.db, keys)
}

// Update implements Transactional.
func (s *SQLiteBackend) Update(ctx context.Context, fn func(w Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&sqliteWriter{ctx: ctx, tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type sqliteWriter struct {
	ctx context.Context
	tx  *sql.Tx
}

func (w *sqliteWriter) Set(key, value string) error {
	return sqliteSet(w.ctx, w.tx, key, value)
}

func (w *sqliteWriter) Remove(keys ...string) error {
	return sqliteRemove(w.ctx, w.tx, keys)
}

func sqliteSet(ctx context.Context, db execer, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func sqliteRemove(ctx context.Context, db execer, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	query := `DELETE FROM kv WHERE key IN (` + placeholders + `)`
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove %s: %w", strings.Join(keys, ", "), err)
	}
	return nil
}
