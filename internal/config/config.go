// ABOUTME: fitlog configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, and the backend and logger factories.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Backend names accepted in config, env, and flags.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Backends lists every supported backend name.
var Backends = []string{BackendSQLite, BackendBadger, BackendCharm, BackendMemory}

// Environment variables that override the config file.
const (
	EnvBackend = "FITLOG_BACKEND"
	EnvDataDir = "FITLOG_DATA_DIR"
)

// Config stores fitlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger",
	// "charm", or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts fitlog.db here, Badger uses a badger/ subdirectory.
	// Supports ~ expansion. Defaults to ~/.local/share/fitlog.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is a zap level name ("debug", "info", "warn", "error").
	LogLevel string `json:"log_level,omitempty"`

	// CharmHost overrides the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// ApplyEnv overlays FITLOG_BACKEND and FITLOG_DATA_DIR when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
}

// DataDir returns the default data directory following XDG.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitlog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenBackend opens the named backend under the configured data directory.
// An empty name opens the configured backend.
func (c *Config) OpenBackend(name string, logger *zap.Logger) (kv.Backend, error) {
	if name == "" {
		name = c.GetBackend()
	}
	dataDir := c.GetDataDir()

	switch strings.ToLower(name) {
	case BackendSQLite:
		return kv.OpenSQLite(filepath.Join(dataDir, "fitlog.db"))
	case BackendBadger:
		return kv.OpenBadger(filepath.Join(dataDir, "badger"), logger)
	case BackendCharm:
		return kv.OpenCharm("fitlog", c.CharmHost)
	case BackendMemory:
		return kv.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", name)
	}
}

// OpenStore opens the configured backend and wraps it in an ExerciseStore,
// completing any interrupted cascade delete.
func (c *Config) OpenStore(ctx context.Context, logger *zap.Logger) (*store.ExerciseStore, error) {
	backend, err := c.OpenBackend("", logger)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", c.GetBackend(), err)
	}
	s, err := store.Open(ctx, backend, store.WithLogger(logger))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	return s, nil
}

// NewLogger builds a production zap logger at level. verbose forces debug.
func NewLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	lvl := zapcore.WarnLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlog", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
