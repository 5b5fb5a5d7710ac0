// ABOUTME: CLI commands for logging and reviewing sessions.
// ABOUTME: Supports log, list, last, and delete subcommands.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
)

var (
	sessionReps   string
	sessionSets   string
	sessionWeight string
	sessionLimit  int
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sess"},
	Short:   "Log and review sessions",
	Long: `Log and review exercise sessions.

A session records one performance of an exercise: reps per set, number of
sets, and weight. Sessions are dated when they are logged.

COMMANDS:

  log      Log a session for an exercise
  list     List recent sessions, optionally for one exercise
  last     Show the most recent session of an exercise
  delete   Delete a session`,
}

var sessionLogCmd = &cobra.Command{
	Use:     "log <exercise>",
	Aliases: []string{"add"},
	Short:   "Log a session",
	Long: `Log a session for an exercise, referenced by ID, short ID, or name.

Reps, sets, and weight are all required and must be greater than zero.

Examples:
  fitlog session log bench --reps 8 --sets 3 --weight 100
  fitlog session log 7QK2M3XA --reps 5 --sets 5 --weight 142.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := models.ParseSessionInput(sessionReps, sessionSets, sessionWeight)
		if err != nil {
			return err
		}

		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		sess, err := exStore.SaveSession(cmd.Context(), e.ID, e.Name, in)
		if err != nil {
			return fmt.Errorf("failed to log session: %w", err)
		}

		color.Green("✓ Logged %s", e.Name)
		fmt.Printf("  %s %s\n", faintID(sess.ID), formatSession(*sess))

		if best, ok := exStore.PersonalBest(cmd.Context(), e.ID); ok && best.ID == sess.ID {
			color.Cyan("  ★ New personal best")
		}
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list [exercise]",
	Aliases: []string{"ls", "l"},
	Short:   "List sessions",
	Long: `List sessions, most recent first.

Each line shows: ID  DATE  EXERCISE  SETS x REPS @ WEIGHT

Examples:
  fitlog session list             # Last 20 sessions across all exercises
  fitlog session list bench -n 5  # Last 5 bench sessions`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sessions []models.Session
		if len(args) == 1 {
			e, err := resolveExercise(cmd, args[0])
			if err != nil {
				return err
			}
			sessions = exStore.GetSessionsByExercise(cmd.Context(), e.ID)
			if sessionLimit > 0 && len(sessions) > sessionLimit {
				sessions = sessions[:sessionLimit]
			}
		} else {
			sessions = exStore.RecentSessions(cmd.Context(), sessionLimit)
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range sessions {
			fmt.Printf("%s %s %s %s\n",
				faintID(s.ID),
				faint.Sprint(s.Date.Local().Format("2006-01-02 15:04")),
				padRight(truncate(s.ExerciseName, 20), 20),
				formatSession(s))
		}
		return nil
	},
}

var sessionLastCmd = &cobra.Command{
	Use:   "last <exercise>",
	Short: "Show the most recent session of an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := resolveExercise(cmd, args[0])
		if err != nil {
			return err
		}

		last, ok := exStore.GetLastSession(cmd.Context(), e.ID)
		if !ok {
			fmt.Printf("No sessions logged for %s.\n", e.Name)
			return nil
		}

		color.New(color.Bold).Println(e.Name)
		fmt.Printf("  %s %s %s\n",
			faintID(last.ID),
			color.New(color.Faint).Sprint(last.Date.Local().Format("2006-01-02 15:04")),
			formatSession(*last))
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a session",
	Long: `Delete a session by its ID or 8-character short ID.

The short ID is shown in the first column of 'fitlog session list'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := exStore.FindSession(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("session not found: %s", args[0])
		}
		if err != nil {
			return err
		}

		if err := exStore.DeleteSession(cmd.Context(), sess.ID); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Yellow("✗ Deleted %s session", sess.ExerciseName)
		fmt.Printf("  %s %s\n", faintID(sess.ID), formatSession(*sess))
		return nil
	},
}

func init() {
	sessionLogCmd.Flags().StringVarP(&sessionReps, "reps", "r", "", "repetitions per set")
	sessionLogCmd.Flags().StringVarP(&sessionSets, "sets", "s", "", "number of sets")
	sessionLogCmd.Flags().StringVarP(&sessionWeight, "weight", "w", "", "weight per repetition")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")

	sessionCmd.AddCommand(sessionLogCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionLastCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
