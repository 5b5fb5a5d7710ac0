// ABOUTME: CLI command for deleting all exercises and sessions.
// ABOUTME: Asks for confirmation unless --yes is given.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all exercises and sessions",
	Long: `Delete every exercise and session from the current backend.

This is a DESTRUCTIVE operation and cannot be undone. Consider running
'fitlog export json -o backup.json' first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes && !confirm(cmd, "This will PERMANENTLY DELETE all exercises and sessions.\nType 'clear' to confirm: ", "clear") {
			fmt.Println("Canceled.")
			return nil
		}

		snap := exStore.ExportAll(cmd.Context())
		if err := exStore.ClearAll(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}

		color.Yellow("✗ Cleared all data")
		fmt.Printf("  Exercises: %d\n", len(snap.Exercises))
		fmt.Printf("  Sessions:  %d\n", len(snap.Sessions))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
