// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	charmkv "github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/spf13/cobra"
)

// charmDBName is the Charm KV database holding fitlog data.
const charmDBName = "fitlog"

var syncRepairForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync exercise data across devices",
	Long: `Sync exercise data across devices using Charm Cloud.

These commands manage the charm backend regardless of which backend is
currently configured. Data is E2E encrypted with your SSH key before
upload; the server never sees your unencrypted training log.

GETTING STARTED:

  1. Link your device:          fitlog sync link
  2. Move existing data:        fitlog migrate --from sqlite --to charm
  3. Use the charm backend:     export FITLOG_BACKEND=charm

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  repair      Repair local database corruption
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)`,
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to Charm",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")

		cb, err := openCharm()
		if err != nil {
			color.Yellow("⚠ Initial sync skipped: %v", err)
			return nil
		}
		defer cb.Close()
		if err := cb.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Disconnect from Charm",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cb, err := openCharm()
		if err != nil {
			color.Yellow("Charm backend unavailable: %v", err)
			fmt.Println("\nRun 'fitlog sync link' to connect to Charm.")
			return nil
		}
		defer cb.Close()

		id, err := cb.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'fitlog sync link' to connect to Charm.")
			return nil
		}

		host := cfg.CharmHost
		if host == "" {
			host = kv.DefaultCharmHost
		}
		fmt.Println("Charm ID:", id)
		fmt.Println("Server:", host)
		if cb.IsReadOnly() {
			color.Yellow("Read-only: another fitlog process holds the database lock")
		}
		fmt.Println()

		snap := store.New(cb, store.WithLogger(logger)).ExportAll(cmd.Context())
		color.Green("✓ Connected to Charm")
		fmt.Printf("  Exercises: %d\n", len(snap.Exercises))
		fmt.Printf("  Sessions:  %d\n", len(snap.Sessions))
		if cfg.GetBackend() != config.BackendCharm {
			faint := color.New(color.Faint)
			faint.Printf("\n  Current backend is %s; these counts are for the charm backend.\n", cfg.GetBackend())
		}
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair database corruption",
	Annotations: map[string]string{annotationNoStore: "true"},
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Repairing fitlog database...")
		result, err := charmkv.Repair(charmDBName, syncRepairForce)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !syncRepairForce {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset local data and restore from cloud",
	Annotations: map[string]string{annotationNoStore: "true"},
	Long: `Delete all local data and restore from Charm Cloud.

Use this to fix sync conflicts or reset a device to the cloud state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will DELETE all local fitlog data and restore from cloud.\nContinue? [y/N]: ", "y") {
			fmt.Println("Canceled.")
			return nil
		}

		cb, err := openCharm()
		if err != nil {
			return err
		}
		defer cb.Close()

		if err := cb.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:         "wipe",
	Short:       "Delete all cloud and local data",
	Annotations: map[string]string{annotationNoStore: "true"},
	Long: `Delete all cloud backups and local data.

This is a DESTRUCTIVE operation. ALL synced data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will PERMANENTLY DELETE all cloud backups and local fitlog data.\nType 'wipe' to confirm: ", "wipe") {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := charmkv.Wipe(charmDBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

func openCharm() (*kv.CharmBackend, error) {
	return kv.OpenCharm(charmDBName, cfg.CharmHost)
}

func runCharmCLI(arg string) error {
	charmCmd := exec.Command("charm", arg)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = os.Stdout
	charmCmd.Stderr = os.Stderr
	return charmCmd.Run()
}

// confirm prints prompt and reports whether the reply equals want, ignoring case.
func confirm(cmd *cobra.Command, prompt, want string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reply, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(reply), want)
}

func init() {
	syncRepairCmd.Flags().BoolVar(&syncRepairForce, "force", false, "attempt recovery even if integrity checks fail")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
