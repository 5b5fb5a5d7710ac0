// ABOUTME: CLI commands for exporting and importing the exercise log.
// ABOUTME: Supports JSON, YAML, and Markdown export and JSON or YAML import.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export exercises and sessions",
	Long: `Export all exercises and sessions.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   One table of sessions per exercise

EXAMPLES:

  fitlog export json                   # Export all data as JSON
  fitlog export json -o backup.json    # Save to file
  fitlog export markdown -o log.md     # Markdown for sharing`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = exStore.ExportJSON(cmd.Context())
		case "yaml":
			data, err = exStore.ExportYAML(cmd.Context())
		case "markdown":
			data = []byte(exStore.ExportMarkdown(cmd.Context()))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import exercises and sessions",
	Long: `Import a JSON or YAML export into the current store.

Exercises whose name already exists are merged into the existing exercise
and their sessions attached to it. Sessions that are already present (same
ID) are skipped, so importing the same file twice is harmless.

EXAMPLES:

  fitlog import backup.json
  fitlog import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var summary store.ImportSummary
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			summary, err = exStore.ImportYAML(cmd.Context(), data)
		default:
			summary, err = exStore.ImportJSON(cmd.Context(), data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  Exercises: %d added, %d merged\n", summary.ExercisesAdded, summary.ExercisesMerged)
		fmt.Printf("  Sessions:  %d added, %d skipped\n", summary.SessionsAdded, summary.SessionsSkipped)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
