// ABOUTME: Session operations: list, history by exercise, save, last session, delete.
// ABOUTME: History is ordered by date descending with insertion order breaking ties.
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/harperreed/fitlog/internal/models"
)

// ListSessions returns all sessions in storage order.
func (s *ExerciseStore) ListSessions(ctx context.Context) []models.Session {
	return loadSlot[models.Session](ctx, s, KeySessions)
}

// GetSessionsByExercise returns the sessions of one exercise, most recent first.
func (s *ExerciseStore) GetSessionsByExercise(ctx context.Context, exerciseID string) []models.Session {
	return sessionsFor(s.ListSessions(ctx), exerciseID)
}

func sessionsFor(all []models.Session, exerciseID string) []models.Session {
	sessions := make([]models.Session, 0)
	for _, sess := range all {
		if sess.ExerciseID == exerciseID {
			sessions = append(sessions, sess)
		}
	}
	sortByDateDesc(sessions)
	return sessions
}

func sortByDateDesc(sessions []models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
}

// SaveSession logs a session against an exercise. The exercise is not
// required to exist.
func (s *ExerciseStore) SaveSession(ctx context.Context, exerciseID, exerciseName string, in models.SessionInput) (*models.Session, error) {
	if strings.TrimSpace(exerciseID) == "" {
		return nil, &models.ValidationError{Field: "exerciseId", Reason: "must not be empty"}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readSlot[models.Session](ctx, s.backend, KeySessions)
	if err != nil {
		return nil, err
	}

	sess := models.NewSession(exerciseID, exerciseName, in, s.timestamp())
	sessions = append(sessions, *sess)

	if err := writeSlot(ctx, s.backend, KeySessions, sessions); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetLastSession returns the most recent session of an exercise.
func (s *ExerciseStore) GetLastSession(ctx context.Context, exerciseID string) (*models.Session, bool) {
	sessions := s.GetSessionsByExercise(ctx, exerciseID)
	if len(sessions) == 0 {
		return nil, false
	}
	return &sessions[0], true
}

// FindSession resolves ref as a full ID or a display short ID.
func (s *ExerciseStore) FindSession(ctx context.Context, ref string) (*models.Session, error) {
	ref = strings.TrimSpace(ref)
	var matches []models.Session
	for _, sess := range s.ListSessions(ctx) {
		if sess.ID == ref {
			return &sess, nil
		}
		if matchesShortID(sess.ID, ref) {
			matches = append(matches, sess)
		}
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, &AmbiguousError{Ref: ref, Matches: len(matches)}
	}
}

// DeleteSession removes one session. Deleting an unknown ID is a no-op.
func (s *ExerciseStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := readSlot[models.Session](ctx, s.backend, KeySessions)
	if err != nil {
		return err
	}

	kept := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	if len(kept) == len(sessions) {
		return nil
	}
	return writeSlot(ctx, s.backend, KeySessions, kept)
}
