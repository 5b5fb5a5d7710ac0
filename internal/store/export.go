// ABOUTME: Export and import of the exercise log.
// ABOUTME: Supports JSON, YAML, and Markdown export, and merging JSON or YAML snapshots.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the format version written to exports.
const ExportVersion = "1.0"

// Snapshot is the full content of the store.
type Snapshot struct {
	Exercises []models.Exercise `json:"exercises" yaml:"exercises"`
	Sessions  []models.Session  `json:"sessions" yaml:"sessions"`
}

// ExportData is the on-disk export format.
type ExportData struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Tool       string    `json:"tool" yaml:"tool"`
	Snapshot   `yaml:",inline"`
}

// ImportSummary counts what an import changed.
type ImportSummary struct {
	ExercisesAdded  int `json:"exercises_added"`
	ExercisesMerged int `json:"exercises_merged"`
	SessionsAdded   int `json:"sessions_added"`
	SessionsSkipped int `json:"sessions_skipped"`
}

// ExportAll returns both collections. Unreadable slots export as empty.
func (s *ExerciseStore) ExportAll(ctx context.Context) Snapshot {
	return Snapshot{
		Exercises: s.ListExercises(ctx),
		Sessions:  s.ListSessions(ctx),
	}
}

// Export wraps ExportAll with format metadata.
func (s *ExerciseStore) Export(ctx context.Context) *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: s.timestamp(),
		Tool:       "fitlog",
		Snapshot:   s.ExportAll(ctx),
	}
}

// ExportJSON exports all data as indented JSON.
func (s *ExerciseStore) ExportJSON(ctx context.Context) ([]byte, error) {
	return json.MarshalIndent(s.Export(ctx), "", "  ")
}

// ExportYAML exports all data as YAML.
func (s *ExerciseStore) ExportYAML(ctx context.Context) ([]byte, error) {
	return yaml.Marshal(s.Export(ctx))
}

// ExportMarkdown renders one section per exercise with its sessions,
// most recent first.
func (s *ExerciseStore) ExportMarkdown(ctx context.Context) string {
	snap := s.ExportAll(ctx)
	now := s.timestamp()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Exercise Log - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(snap.Exercises) == 0 {
		sb.WriteString("No exercises yet.\n")
		return sb.String()
	}

	for _, e := range snap.Exercises {
		sb.WriteString(fmt.Sprintf("## %s\n\n", e.Name))
		sb.WriteString(fmt.Sprintf("%s\n\n", e.Details))

		sessions := sessionsFor(snap.Sessions, e.ID)
		if len(sessions) == 0 {
			sb.WriteString("_No sessions logged._\n\n")
			continue
		}
		sb.WriteString("| Date | Reps | Sets | Weight |\n")
		sb.WriteString("|------|------|------|--------|\n")
		for _, sess := range sessions {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %g |\n",
				sess.Date.Local().Format("2006-01-02 15:04"),
				sess.Reps, sess.Sets, sess.Weight))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ImportJSON merges a JSON export into the store.
func (s *ExerciseStore) ImportJSON(ctx context.Context, data []byte) (ImportSummary, error) {
	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		return ImportSummary{}, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return s.Import(ctx, export.Snapshot)
}

// ImportYAML merges a YAML export into the store.
func (s *ExerciseStore) ImportYAML(ctx context.Context, data []byte) (ImportSummary, error) {
	var export ExportData
	if err := yaml.Unmarshal(data, &export); err != nil {
		return ImportSummary{}, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return s.Import(ctx, export.Snapshot)
}

// Import merges snap into the store. Exercises whose name already exists
// are merged into the existing record and their sessions re-pointed.
// Sessions whose ID is already stored are skipped, so importing the same
// snapshot twice changes nothing.
func (s *ExerciseStore) Import(ctx context.Context, snap Snapshot) (ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary ImportSummary

	exercises, sessions, err := s.readForCascade(ctx)
	if err != nil {
		return summary, err
	}

	usedIDs := make(map[string]bool, len(exercises))
	for _, e := range exercises {
		usedIDs[e.ID] = true
	}

	// imported exercise ID -> surviving exercise
	survivors := make(map[string]models.Exercise, len(snap.Exercises))
	for _, in := range snap.Exercises {
		draft := models.ExerciseDraft{Name: in.Name, Details: in.Details, Image: in.Image}
		if draft.Validate() != nil {
			continue
		}

		if existing, ok := findByName(exercises, in.Name); ok {
			survivors[in.ID] = existing
			summary.ExercisesMerged++
			continue
		}

		created := in.CreatedAt
		if created.IsZero() {
			created = s.timestamp()
		}
		e := models.NewExercise(draft, created)
		if in.ID != "" && !usedIDs[in.ID] {
			e.ID = in.ID
		}
		usedIDs[e.ID] = true
		exercises = append(exercises, *e)
		survivors[in.ID] = *e
		summary.ExercisesAdded++
	}

	seen := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		seen[sess.ID] = true
	}
	for _, in := range snap.Sessions {
		if in.ID != "" && seen[in.ID] {
			summary.SessionsSkipped++
			continue
		}
		input := models.SessionInput{Reps: in.Reps, Sets: in.Sets, Weight: in.Weight}
		if input.Validate() != nil || strings.TrimSpace(in.ExerciseID) == "" {
			summary.SessionsSkipped++
			continue
		}

		sess := in
		if e, ok := survivors[in.ExerciseID]; ok {
			sess.ExerciseID = e.ID
			sess.ExerciseName = e.Name
		}
		if sess.ID == "" {
			sess.ID = models.NewID(s.timestamp())
		}
		if sess.Date.IsZero() {
			sess.Date = s.timestamp()
		}
		seen[sess.ID] = true
		sessions = append(sessions, sess)
		summary.SessionsAdded++
	}

	if summary.ExercisesAdded == 0 && summary.SessionsAdded == 0 {
		return summary, nil
	}
	if err := s.writeBoth(ctx, exercises, sessions); err != nil {
		return ImportSummary{}, err
	}
	return summary, nil
}

func findByName(exercises []models.Exercise, name string) (models.Exercise, bool) {
	for _, e := range exercises {
		if models.SameName(e.Name, name) {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// writeBoth rewrites both collections, atomically when the backend allows.
// A non-transactional failure between the writes leaves exercises without
// their sessions; re-running the import completes it.
func (s *ExerciseStore) writeBoth(ctx context.Context, exercises []models.Exercise, sessions []models.Session) error {
	tx, ok := s.backend.(kv.Transactional)
	if !ok {
		if err := writeSlot(ctx, s.backend, KeyExercises, exercises); err != nil {
			return err
		}
		return writeSlot(ctx, s.backend, KeySessions, sessions)
	}

	exData, err := encodeSlot(KeyExercises, exercises)
	if err != nil {
		return err
	}
	sessData, err := encodeSlot(KeySessions, sessions)
	if err != nil {
		return err
	}
	return commitBoth(ctx, tx, exData, sessData)
}
