// ABOUTME: Tests for fitlog configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and logging.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/fitlog/internal/kv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "Badger"}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg := &Config{}
	want := filepath.Join("/tmp/xdg-data", "fitlog")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/fitlog-data"}
	want := filepath.Join(home, "fitlog-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/fitlog", filepath.Join(home, "data/fitlog")},
		{"data/fitlog", "data/fitlog"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBackend, "memory")
	t.Setenv(EnvDataDir, "/tmp/env-data")

	cfg := &Config{Backend: "sqlite", DataDir: "/tmp/file-data"}
	cfg.ApplyEnv()

	if cfg.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
	if cfg.DataDir != "/tmp/env-data" {
		t.Errorf("DataDir = %q, want /tmp/env-data", cfg.DataDir)
	}
}

func TestApplyEnvUnset(t *testing.T) {
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvDataDir, "")

	cfg := &Config{Backend: "badger"}
	cfg.ApplyEnv()
	if cfg.Backend != "badger" {
		t.Errorf("Backend = %q, want badger", cfg.Backend)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("Expected empty config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		Backend:  "badger",
		DataDir:  "/tmp/fitlog-data",
		LogLevel: "debug",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "fitlog")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	configDir := filepath.Join(tmpDir, "fitlog")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	want := filepath.Join(tmpDir, "fitlog", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenBackendSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	b, err := cfg.OpenBackend("", zap.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend() for sqlite failed: %v", err)
	}
	defer b.Close()

	if _, ok := b.(*kv.SQLiteBackend); !ok {
		t.Errorf("Expected *kv.SQLiteBackend, got %T", b)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "fitlog.db")); os.IsNotExist(err) {
		t.Error("Expected fitlog.db to be created")
	}
}

func TestOpenBackendBadger(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "badger", DataDir: tmpDir}

	b, err := cfg.OpenBackend("", zap.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend() for badger failed: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(filepath.Join(tmpDir, "badger")); os.IsNotExist(err) {
		t.Error("Expected badger directory to be created")
	}
}

func TestOpenBackendNamedOverridesConfig(t *testing.T) {
	cfg := &Config{Backend: "sqlite", DataDir: t.TempDir()}

	b, err := cfg.OpenBackend("memory", zap.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend(memory) failed: %v", err)
	}
	if _, ok := b.(*kv.MemoryBackend); !ok {
		t.Errorf("Expected *kv.MemoryBackend, got %T", b)
	}
}

func TestOpenBackendInvalid(t *testing.T) {
	cfg := &Config{Backend: "invalid", DataDir: "/tmp"}

	if _, err := cfg.OpenBackend("", zap.NewNop()); err == nil {
		t.Error("Expected error for invalid backend")
	}
}

func TestOpenStore(t *testing.T) {
	cfg := &Config{Backend: "memory"}

	s, err := cfg.OpenStore(context.Background(), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	defer s.Close()

	if got := s.ListExercises(context.Background()); len(got) != 0 {
		t.Errorf("Expected empty store, got %d exercises", len(got))
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		want    zapcore.Level
		wantErr bool
	}{
		{"default", "", false, zapcore.WarnLevel, false},
		{"explicit", "info", false, zapcore.InfoLevel, false},
		{"verbose wins", "error", true, zapcore.DebugLevel, false},
		{"bad level", "loud", false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level, tt.verbose)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger() failed: %v", err)
			}
			if !logger.Core().Enabled(tt.want) {
				t.Errorf("level %v not enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("level %v should be disabled", tt.want-1)
			}
		})
	}
}
