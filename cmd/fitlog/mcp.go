// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/fitlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and log your training through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "fitlog": {
        "command": "fitlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_exercise        Create an exercise
  list_exercises      List exercises with their latest session
  get_exercise        Get an exercise with its session history
  delete_exercise     Delete an exercise and its sessions
  log_session         Log reps, sets, and weight
  list_sessions       List recent sessions
  get_last_session    Most recent session of an exercise
  delete_session      Delete a session
  get_progress        Progress series and personal best
  export_data         Export everything as json, yaml, or markdown

AVAILABLE RESOURCES:

  fitlog://exercises         Exercises with latest sessions
  fitlog://sessions/recent   The 20 most recent sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(exStore)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
