// ABOUTME: Derived queries over an exercise's history: summaries, progress series, personal best.
// ABOUTME: These back the list, detail, and chart views without rendering anything.
package store

import (
	"context"

	"github.com/harperreed/fitlog/internal/models"
)

// DefaultProgressLimit is the number of sessions in a progress series when
// the caller does not specify one.
const DefaultProgressLimit = 10

// GetExerciseWithSessions returns an exercise with its history, most recent first.
func (s *ExerciseStore) GetExerciseWithSessions(ctx context.Context, id string) (*models.ExerciseWithSessions, bool) {
	e, ok := s.GetExerciseByID(ctx, id)
	if !ok {
		return nil, false
	}

	sessions := s.GetSessionsByExercise(ctx, id)
	out := &models.ExerciseWithSessions{
		Exercise: *e,
		Sessions: sessions,
	}
	if len(sessions) > 0 {
		last := sessions[0]
		out.LastSession = &last
	}
	return out, true
}

// ListExerciseSummaries returns every exercise with its latest session.
func (s *ExerciseStore) ListExerciseSummaries(ctx context.Context) []models.ExerciseSummary {
	exercises := s.ListExercises(ctx)
	all := s.ListSessions(ctx)

	latest := make(map[string]models.Session)
	for _, sess := range all {
		cur, ok := latest[sess.ExerciseID]
		if !ok || sess.Date.After(cur.Date) {
			latest[sess.ExerciseID] = sess
		}
	}

	summaries := make([]models.ExerciseSummary, 0, len(exercises))
	for _, e := range exercises {
		summary := models.ExerciseSummary{Exercise: e}
		if sess, ok := latest[e.ID]; ok {
			summary.LastSession = &sess
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// Progress returns up to limit of the most recent sessions as a series
// ordered oldest to newest. A limit of zero or less uses DefaultProgressLimit.
func (s *ExerciseStore) Progress(ctx context.Context, exerciseID string, limit int) []models.ProgressPoint {
	if limit <= 0 {
		limit = DefaultProgressLimit
	}

	sessions := s.GetSessionsByExercise(ctx, exerciseID)
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	points := make([]models.ProgressPoint, len(sessions))
	for i, sess := range sessions {
		points[len(sessions)-1-i] = models.ProgressPointOf(sess)
	}
	return points
}

// PersonalBest returns the heaviest session of an exercise. The earliest
// session wins ties.
func (s *ExerciseStore) PersonalBest(ctx context.Context, exerciseID string) (*models.Session, bool) {
	var best *models.Session
	for _, sess := range s.ListSessions(ctx) {
		if sess.ExerciseID != exerciseID {
			continue
		}
		if best == nil || sess.Weight > best.Weight ||
			(sess.Weight == best.Weight && sess.Date.Before(best.Date)) {
			candidate := sess
			best = &candidate
		}
	}
	return best, best != nil
}

// RecentSessions returns the n most recent sessions across all exercises.
func (s *ExerciseStore) RecentSessions(ctx context.Context, n int) []models.Session {
	sessions := s.ListSessions(ctx)
	sortByDateDesc(sessions)
	if n > 0 && len(sessions) > n {
		sessions = sessions[:n]
	}
	return sessions
}
