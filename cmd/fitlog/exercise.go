// ABOUTME: CLI commands for managing exercises.
// ABOUTME: Supports add, list, show, and delete subcommands.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
)

var (
	exerciseDetails string
	exerciseImage   string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage exercises",
	Long: `Manage the exercises you train.

Exercise names are unique ignoring case and surrounding whitespace. Adding
an exercise whose name already exists returns the existing one.

COMMANDS:

  add      Create an exercise
  list     List exercises with their most recent session
  show     Show an exercise and its full session history
  delete   Delete an exercise and all of its sessions`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise.

Examples:
  fitlog exercise add "Bench Press"
  fitlog exercise add Squat --details "high bar, belt"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := models.ExerciseDraft{
			Name:    strings.Join(args, " "),
			Details: exerciseDetails,
			Image:   exerciseImage,
		}
		if err := draft.Validate(); err != nil {
			return err
		}

		if existing, ok := exStore.GetExerciseByName(cmd.Context(), draft.Name); ok {
			color.Yellow("• %s already exists", existing.Name)
			fmt.Printf("  %s %s\n", faintID(existing.ID), existing.Details)
			return nil
		}

		e, err := exStore.SaveExercise(cmd.Context(), draft)
		if err != nil {
			return fmt.Errorf("failed to save exercise: %w", err)
		}

		color.Green("✓ Added %s", e.Name)
		fmt.Printf("  %s %s\n", faintID(e.ID), e.Details)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List exercises",
	Long: `List exercises in the order they were created.

Each line shows: ID  NAME  LAST SESSION`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summaries := exStore.ListExerciseSummaries(cmd.Context())
		if len(summaries) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range summaries {
			last := faint.Sprint("no sessions yet")
			if s.LastSession != nil {
				last = fmt.Sprintf("%s %s",
					formatSession(*s.LastSession),
					faint.Sprint(s.LastSession.Date.Local().Format("2006-01-02")))
			}
			fmt.Printf("%s %s %s\n", faintID(s.ID), padRight(truncate(s.Name, 24), 24), last)
		}
		return nil
	},
}

var exerciseShowCmd = &cobra.Command{
	Use:   "show <exercise>",
	Short: "Show an exercise with its sessions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}
		detail, ok := exStore.GetExerciseWithSessions(cmd.Context(), e.ID)
		if !ok {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		faint := color.New(color.Faint)
		color.New(color.Bold).Println(detail.Name)
		fmt.Printf("  ID:      %s\n", detail.ID)
		fmt.Printf("  Details: %s\n", detail.Details)
		if detail.Image != "" {
			fmt.Printf("  Image:   %s\n", detail.Image)
		}
		fmt.Printf("  Created: %s\n", detail.CreatedAt.Local().Format("2006-01-02 15:04"))

		if len(detail.Sessions) == 0 {
			fmt.Println("\n  No sessions logged.")
			return nil
		}

		fmt.Printf("\n  Sessions (%d):\n", len(detail.Sessions))
		for _, s := range detail.Sessions {
			fmt.Printf("    %s %s %s\n",
				faintID(s.ID),
				faint.Sprint(s.Date.Local().Format("2006-01-02 15:04")),
				formatSession(s))
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <exercise>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an exercise and its sessions",
	Long: `Delete an exercise by ID, short ID, or name.

CAUTION:

  All sessions logged for the exercise are deleted too. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}
		count := len(exStore.GetSessionsByExercise(cmd.Context(), e.ID))

		if err := exStore.DeleteExercise(cmd.Context(), e.ID); err != nil {
			var partial *store.PartialDeleteError
			if errors.As(err, &partial) {
				color.Yellow("⚠ %s was deleted but its sessions were not", e.Name)
				fmt.Println("  They will be removed the next time fitlog starts.")
			}
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.Yellow("✗ Deleted %s", e.Name)
		fmt.Printf("  %s %d sessions removed\n", faintID(e.ID), count)
		return nil
	},
}

// resolveExercise finds an exercise by ID, short ID, or name.
func resolveExercise(cmd *cobra.Command, ref string) (*models.Exercise, error) {
	e, err := exStore.FindExercise(cmd.Context(), ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("exercise not found: %s", ref)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func faintID(id string) string {
	return color.New(color.Faint).Sprint(models.ShortID(id))
}

func formatSession(s models.Session) string {
	return fmt.Sprintf("%d x %d @ %g", s.Sets, s.Reps, s.Weight)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	exerciseAddCmd.Flags().StringVar(&exerciseDetails, "details", "", "free-form description")
	exerciseAddCmd.Flags().StringVar(&exerciseImage, "image", "", "image path or URI")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseShowCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
