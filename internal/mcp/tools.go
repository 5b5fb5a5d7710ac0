// ABOUTME: MCP tool implementations for the exercise log.
// ABOUTME: Exposes exercise and session CRUD, progress, and export.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Create an exercise. Returns the existing one if the name is already taken",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List all exercises with their most recent session",
	}, s.handleListExercises)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_exercise",
		Description: "Get an exercise with its full session history",
	}, s.handleGetExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_exercise",
		Description: "Delete an exercise and all of its sessions",
	}, s.handleDeleteExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_session",
		Description: "Log reps, sets, and weight for an exercise",
	}, s.handleLogSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent sessions, optionally for one exercise",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_last_session",
		Description: "Get the most recent session of an exercise",
	}, s.handleGetLastSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session by ID or short ID",
	}, s.handleDeleteSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_progress",
		Description: "Get the progress series and personal best for an exercise",
	}, s.handleGetProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "export_data",
		Description: "Export all exercises and sessions as json, yaml, or markdown",
	}, s.handleExportData)
}

// Tool input/output types

type addExerciseInput struct {
	Name    string `json:"name" jsonschema:"exercise name, unique ignoring case"`
	Details string `json:"details,omitempty" jsonschema:"free-form description"`
	Image   string `json:"image,omitempty" jsonschema:"image URI"`
}

type exerciseOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listExercisesInput struct{}

type exerciseRefInput struct {
	Exercise string `json:"exercise" jsonschema:"exercise ID, short ID, or name"`
}

type logSessionInput struct {
	Exercise string  `json:"exercise" jsonschema:"exercise ID, short ID, or name"`
	Reps     int     `json:"reps" jsonschema:"repetitions per set"`
	Sets     int     `json:"sets" jsonschema:"number of sets"`
	Weight   float64 `json:"weight" jsonschema:"weight per repetition"`
}

type sessionOutput struct {
	ID       string  `json:"id"`
	Exercise string  `json:"exercise"`
	Reps     int     `json:"reps"`
	Sets     int     `json:"sets"`
	Weight   float64 `json:"weight"`
	Message  string  `json:"message"`
}

type listSessionsInput struct {
	Exercise string `json:"exercise,omitempty" jsonschema:"filter by exercise ID, short ID, or name"`
	Limit    int    `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type sessionRefInput struct {
	ID string `json:"id" jsonschema:"session ID or short ID"`
}

type progressInput struct {
	Exercise string `json:"exercise" jsonschema:"exercise ID, short ID, or name"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of recent sessions (default 10)"`
}

type exportInput struct {
	Format string `json:"format,omitempty" jsonschema:"json (default), yaml, or markdown"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	draft := models.ExerciseDraft{Name: input.Name, Details: input.Details, Image: input.Image}
	e, err := s.store.SaveExercise(ctx, draft)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to save exercise: %w", err)
	}

	return nil, exerciseOutput{
		ID:      e.ID,
		Name:    e.Name,
		Message: fmt.Sprintf("Exercise %s (ID: %s)", e.Name, models.ShortID(e.ID)),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	summaries := s.store.ListExerciseSummaries(ctx)
	if len(summaries) == 0 {
		return nil, map[string]interface{}{"message": "No exercises found."}, nil
	}
	return nil, map[string]interface{}{"exercises": summaries}, nil
}

func (s *Server) handleGetExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, any, error) {
	e, err := s.resolveExercise(ctx, input.Exercise)
	if err != nil {
		return nil, nil, err
	}
	detail, ok := s.store.GetExerciseWithSessions(ctx, e.ID)
	if !ok {
		return nil, nil, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	return nil, detail, nil
}

func (s *Server) handleDeleteExercise(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	e, err := s.resolveExercise(ctx, input.Exercise)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	if err := s.store.DeleteExercise(ctx, e.ID); err != nil {
		var partial *store.PartialDeleteError
		if errors.As(err, &partial) {
			return nil, simpleOutput{}, fmt.Errorf("exercise deleted but its sessions were not; they will be removed on next start: %w", err)
		}
		return nil, simpleOutput{}, fmt.Errorf("failed to delete exercise: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted exercise %s and its sessions", e.Name),
	}, nil
}

func (s *Server) handleLogSession(ctx context.Context, req *mcp.CallToolRequest, input logSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	e, err := s.resolveExercise(ctx, input.Exercise)
	if err != nil {
		return nil, sessionOutput{}, err
	}

	sess, err := s.store.SaveSession(ctx, e.ID, e.Name, models.SessionInput{
		Reps:   input.Reps,
		Sets:   input.Sets,
		Weight: input.Weight,
	})
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to log session: %w", err)
	}

	return nil, sessionOutput{
		ID:       sess.ID,
		Exercise: e.Name,
		Reps:     sess.Reps,
		Sets:     sess.Sets,
		Weight:   sess.Weight,
		Message: fmt.Sprintf("Logged %s: %d x %d @ %g (ID: %s)",
			e.Name, sess.Sets, sess.Reps, sess.Weight, models.ShortID(sess.ID)),
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	var sessions []models.Session
	if input.Exercise != "" {
		e, err := s.resolveExercise(ctx, input.Exercise)
		if err != nil {
			return nil, nil, err
		}
		sessions = s.store.GetSessionsByExercise(ctx, e.ID)
		if len(sessions) > input.Limit {
			sessions = sessions[:input.Limit]
		}
	} else {
		sessions = s.store.RecentSessions(ctx, input.Limit)
	}

	if len(sessions) == 0 {
		return nil, map[string]interface{}{"message": "No sessions found."}, nil
	}
	return nil, map[string]interface{}{"sessions": sessions}, nil
}

func (s *Server) handleGetLastSession(ctx context.Context, req *mcp.CallToolRequest, input exerciseRefInput) (*mcp.CallToolResult, any, error) {
	e, err := s.resolveExercise(ctx, input.Exercise)
	if err != nil {
		return nil, nil, err
	}
	last, ok := s.store.GetLastSession(ctx, e.ID)
	if !ok {
		return nil, map[string]interface{}{"message": fmt.Sprintf("No sessions logged for %s.", e.Name)}, nil
	}
	return nil, last, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input sessionRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	sess, err := s.store.FindSession(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("resolve session %q: %w", input.ID, err)
	}
	if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted session: %s", models.ShortID(sess.ID)),
	}, nil
}

func (s *Server) handleGetProgress(ctx context.Context, req *mcp.CallToolRequest, input progressInput) (*mcp.CallToolResult, any, error) {
	e, err := s.resolveExercise(ctx, input.Exercise)
	if err != nil {
		return nil, nil, err
	}

	result := map[string]interface{}{
		"exercise": e.Name,
		"points":   s.store.Progress(ctx, e.ID, input.Limit),
	}
	if best, ok := s.store.PersonalBest(ctx, e.ID); ok {
		result["personal_best"] = best
	}
	return nil, result, nil
}

func (s *Server) handleExportData(ctx context.Context, req *mcp.CallToolRequest, input exportInput) (*mcp.CallToolResult, any, error) {
	var text string
	switch strings.ToLower(input.Format) {
	case "", "json":
		data, err := s.store.ExportJSON(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to export: %w", err)
		}
		text = string(data)
	case "yaml", "yml":
		data, err := s.store.ExportYAML(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to export: %w", err)
		}
		text = string(data)
	case "markdown", "md":
		text = s.store.ExportMarkdown(ctx)
	default:
		return nil, nil, fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", input.Format)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func (s *Server) resolveExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, &models.ValidationError{Field: "exercise", Reason: "must not be empty"}
	}
	e, err := s.store.FindExercise(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve exercise %q: %w", ref, err)
	}
	return e, nil
}
