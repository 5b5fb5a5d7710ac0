// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the exercises, sessions, and intent slots from one backend to another.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateForce  bool
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move data between storage backends",
	Long: `Copy all exercises and sessions from one storage backend to another.

Both backends live under the configured data directory. The destination is
overwritten, so migrate refuses to run when it already holds exercises
unless --force is given.

USAGE:

  fitlog migrate --from sqlite --to badger --dry-run   # Preview
  fitlog migrate --from sqlite --to charm              # Move to cloud sync

AFTER MIGRATION:

  Point fitlog at the new backend with --backend, FITLOG_BACKEND, or
  "backend" in ~/.config/fitlog/config.json.`,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		from := strings.ToLower(migrateFrom)
		to := strings.ToLower(migrateTo)
		if from == to {
			return fmt.Errorf("source and destination are both %q", from)
		}

		src, err := cfg.OpenBackend(from, logger)
		if err != nil {
			return fmt.Errorf("open source %s: %w", from, err)
		}
		defer src.Close()

		dst, err := cfg.OpenBackend(to, logger)
		if err != nil {
			return fmt.Errorf("open destination %s: %w", to, err)
		}
		defer dst.Close()

		ctx := cmd.Context()
		srcSnap := store.New(src, store.WithLogger(logger)).ExportAll(ctx)
		dstCount := len(store.New(dst, store.WithLogger(logger)).ListExercises(ctx))

		fmt.Printf("Source (%s):      %d exercises, %d sessions\n", from, len(srcSnap.Exercises), len(srcSnap.Sessions))
		fmt.Printf("Destination (%s): %d exercises\n", to, dstCount)

		if dstCount > 0 && !migrateForce {
			return fmt.Errorf("destination %s already has data; use --force to overwrite", to)
		}
		if migrateDryRun {
			color.Yellow("Dry run mode - no changes made")
			return nil
		}

		summary, err := kv.Copy(ctx, src, dst, store.AllKeys)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("migration complete",
			zap.String("from", from), zap.String("to", to),
			zap.Strings("copied", summary.Copied), zap.Strings("skipped", summary.Skipped))

		color.Green("✓ Migrated %s → %s", from, to)
		fmt.Printf("  Slots copied: %s\n", strings.Join(summary.Copied, ", "))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a destination that already has data")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("from")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
