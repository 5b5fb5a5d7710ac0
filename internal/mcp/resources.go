// ABOUTME: MCP resource implementations for the exercise log.
// ABOUTME: Provides fitlog://exercises and fitlog://sessions/recent resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	exercisesURI      = "fitlog://exercises"
	recentSessionsURI = "fitlog://sessions/recent"
	recentSessionsMax = 20
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         exercisesURI,
		Name:        "Exercises",
		Description: "Every exercise with its most recent session",
		MIMEType:    "application/json",
	}, s.handleExercisesResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentSessionsURI,
		Name:        "Recent Sessions",
		Description: "The 20 most recent sessions across all exercises",
		MIMEType:    "application/json",
	}, s.handleRecentSessionsResource)
}

// Resource handlers

func (s *Server) handleExercisesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	summaries := s.store.ListExerciseSummaries(ctx)
	return jsonResource(exercisesURI, map[string]interface{}{
		"count":     len(summaries),
		"exercises": summaries,
	})
}

func (s *Server) handleRecentSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions := s.store.RecentSessions(ctx, recentSessionsMax)
	return jsonResource(recentSessionsURI, map[string]interface{}{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
