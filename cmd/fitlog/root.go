// ABOUTME: Root Cobra command for fitlog CLI.
// ABOUTME: Loads config and manages the logger and store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// annotationNoStore marks commands that manage backends themselves.
const annotationNoStore = "fitlog/no-store"

var (
	cfg     *config.Config
	logger  *zap.Logger
	exStore *store.ExerciseStore

	verbose     bool
	backendFlag string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "fitlog",
	Short: "Personal exercise log",
	Long: `Fitlog is a CLI tool for logging strength training.

Define the exercises you train, log sessions (reps, sets, weight) against
them, and watch your progress over time.

QUICK START:

  $ fitlog exercise add "Bench Press" --details "flat, barbell"
  $ fitlog session log bench --reps 8 --sets 3 --weight 100
  $ fitlog session last bench
  $ fitlog progress bench

Exercises and sessions can be referenced by full ID, by the 8-character
short ID shown in listings, or (for exercises) by name.

STORAGE BACKENDS:

  sqlite   Local SQLite database (default)
  badger   Local Badger key-value store
  charm    Charm KV with E2E-encrypted cloud sync
  memory   In-memory only, nothing is persisted

  Select with --backend, FITLOG_BACKEND, or "backend" in
  ~/.config/fitlog/config.json.

MCP INTEGRATION:

  Run 'fitlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

  {
    "mcpServers": {
      "fitlog": { "command": "fitlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "install-skill" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()
		if backendFlag != "" {
			cfg.Backend = backendFlag
		}
		if dataDirFlag != "" {
			cfg.DataDir = dataDirFlag
		}

		logger, err = config.NewLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("configuration loaded",
			zap.String("backend", cfg.GetBackend()),
			zap.String("data_dir", cfg.GetDataDir()))

		if cmd.Annotations[annotationNoStore] != "" {
			return nil
		}

		exStore, err = cfg.OpenStore(cmd.Context(), logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute runs the root command and closes the store even when the
// command fails.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeStore(); err == nil {
		err = closeErr
	}
	return err
}

func closeStore() error {
	var err error
	if exStore != nil {
		err = exStore.Close()
		exStore = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend (sqlite, badger, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.local/share/fitlog)")
}
