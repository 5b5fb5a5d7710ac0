// ABOUTME: CLI command for viewing progress on an exercise.
// ABOUTME: Prints the recent weight series and the personal best.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
)

var progressLimit int

var progressCmd = &cobra.Command{
	Use:     "progress <exercise>",
	Aliases: []string{"p"},
	Short:   "Show progress for an exercise",
	Long: `Show the most recent sessions of an exercise, oldest first, with a
bar for the weight of each and the personal best.

Examples:
  fitlog progress bench
  fitlog progress squat -n 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		points := exStore.Progress(cmd.Context(), e.ID, progressLimit)
		if len(points) == 0 {
			fmt.Printf("No sessions logged for %s.\n", e.Name)
			return nil
		}

		maxWeight := 0.0
		for _, p := range points {
			if p.Weight > maxWeight {
				maxWeight = p.Weight
			}
		}

		color.New(color.Bold).Printf("%s (last %d sessions)\n", e.Name, len(points))
		faint := color.New(color.Faint)
		for _, p := range points {
			fmt.Printf("  %s %s %g  %s\n",
				faint.Sprint(p.Date.Local().Format("2006-01-02")),
				color.CyanString(bar(p.Weight, maxWeight, 30)),
				p.Weight,
				faint.Sprintf("%d x %d, volume %g", p.Sets, p.Reps, p.Volume))
		}

		if best, ok := exStore.PersonalBest(cmd.Context(), e.ID); ok {
			fmt.Println()
			color.Green("★ Personal best: %g (%d x %d on %s)",
				best.Weight, best.Sets, best.Reps, best.Date.Local().Format("2006-01-02"))
		}
		return nil
	},
}

// bar renders value as a run of block characters scaled to width.
func bar(value, maxValue float64, width int) string {
	if maxValue <= 0 || value <= 0 {
		return ""
	}
	n := int(value / maxValue * float64(width))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func init() {
	progressCmd.Flags().IntVarP(&progressLimit, "limit", "n", store.DefaultProgressLimit, "number of recent sessions")
	rootCmd.AddCommand(progressCmd)
}
