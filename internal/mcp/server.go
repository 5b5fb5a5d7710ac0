// ABOUTME: MCP server setup for the exercise log.
// ABOUTME: Wraps the MCP server around an ExerciseStore.
package mcp

import (
	"context"

	"github.com/harperreed/fitlog/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with store access.
type Server struct {
	mcpServer *mcp.Server
	store     *store.ExerciseStore
}

// NewServer creates a new MCP server backed by st.
func NewServer(st *store.ExerciseStore) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     st,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
