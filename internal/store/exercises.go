// ABOUTME: Exercise operations: list, save with name de-duplication, lookup, cascade delete.
// ABOUTME: Cascade delete is one transaction when the backend supports it, journaled otherwise.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/models"
	"go.uber.org/zap"
)

// ListExercises returns all exercises in insertion order.
func (s *ExerciseStore) ListExercises(ctx context.Context) []models.Exercise {
	return loadSlot[models.Exercise](ctx, s, KeyExercises)
}

// SaveExercise stores a new exercise. If an exercise with the same
// normalized name exists it is returned unchanged and nothing is written.
func (s *ExerciseStore) SaveExercise(ctx context.Context, draft models.ExerciseDraft) (*models.Exercise, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exercises, err := readSlot[models.Exercise](ctx, s.backend, KeyExercises)
	if err != nil {
		return nil, err
	}

	for i := range exercises {
		if models.SameName(exercises[i].Name, draft.Name) {
			s.log.Debug("exercise already exists, returning existing",
				zap.String("name", exercises[i].Name), zap.String("id", exercises[i].ID))
			existing := exercises[i]
			return &existing, nil
		}
	}

	e := models.NewExercise(draft, s.timestamp())
	exercises = append(exercises, *e)

	if err := writeSlot(ctx, s.backend, KeyExercises, exercises); err != nil {
		return nil, err
	}
	return e, nil
}

// GetExerciseByID returns the exercise with the given ID.
func (s *ExerciseStore) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, bool) {
	for _, e := range s.ListExercises(ctx) {
		if e.ID == id {
			return &e, true
		}
	}
	return nil, false
}

// GetExerciseByName returns the exercise whose normalized name matches.
func (s *ExerciseStore) GetExerciseByName(ctx context.Context, name string) (*models.Exercise, bool) {
	for _, e := range s.ListExercises(ctx) {
		if models.SameName(e.Name, name) {
			return &e, true
		}
	}
	return nil, false
}

// FindExercise resolves ref as a full ID, a display short ID, or a name.
func (s *ExerciseStore) FindExercise(ctx context.Context, ref string) (*models.Exercise, error) {
	ref = strings.TrimSpace(ref)
	exercises := s.ListExercises(ctx)

	for _, e := range exercises {
		if e.ID == ref {
			return &e, nil
		}
	}

	var matches []models.Exercise
	for _, e := range exercises {
		if matchesShortID(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	if len(matches) > 1 {
		return nil, &AmbiguousError{Ref: ref, Matches: len(matches)}
	}
	if len(matches) == 1 {
		return &matches[0], nil
	}

	for _, e := range exercises {
		if models.SameName(e.Name, ref) {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

// matchesShortID reports whether ref is a case-insensitive suffix of id at
// least four characters long.
func matchesShortID(id, ref string) bool {
	if len(ref) < 4 {
		return false
	}
	return strings.HasSuffix(strings.ToUpper(id), strings.ToUpper(ref))
}

// DeleteExercise removes the exercise and every session that references it.
// Deleting an unknown ID is a no-op.
//
// On a kv.Transactional backend both slots are rewritten in one commit.
// Otherwise an intent record is journaled first; if the sessions write
// fails a *PartialDeleteError is returned and Recover finishes the job.
func (s *ExerciseStore) DeleteExercise(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx, ok := s.backend.(kv.Transactional); ok {
		return s.deleteExerciseTx(ctx, tx, id)
	}

	exercises, sessions, err := s.readForCascade(ctx)
	if err != nil {
		return err
	}
	keptExercises, keptSessions, changed := filterCascade(exercises, sessions, id)
	if !changed {
		return nil
	}

	in := newIntent(opDeleteExercise, id, s.timestamp())
	if err := s.appendIntent(ctx, in); err != nil {
		return err
	}

	if err := writeSlot(ctx, s.backend, KeyExercises, keptExercises); err != nil {
		if dropErr := s.dropIntent(ctx, in.ID); dropErr != nil {
			s.log.Warn("failed to drop intent after aborted delete",
				zap.String("intent", in.ID.String()), zap.Error(dropErr))
		}
		return err
	}

	if err := writeSlot(ctx, s.backend, KeySessions, keptSessions); err != nil {
		s.log.Warn("cascade delete left orphaned sessions; will retry on next open",
			zap.String("exercise_id", id), zap.Error(err))
		return &PartialDeleteError{ExerciseID: id, ExerciseRemoved: true, Err: err}
	}

	if err := s.dropIntent(ctx, in.ID); err != nil {
		// Both slots are consistent; replaying the intent later is harmless.
		s.log.Warn("failed to drop completed intent",
			zap.String("intent", in.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *ExerciseStore) deleteExerciseTx(ctx context.Context, tx kv.Transactional, id string) error {
	exercises, sessions, err := s.readForCascade(ctx)
	if err != nil {
		return err
	}
	keptExercises, keptSessions, changed := filterCascade(exercises, sessions, id)
	if !changed {
		return nil
	}

	exData, err := encodeSlot(KeyExercises, keptExercises)
	if err != nil {
		return err
	}
	sessData, err := encodeSlot(KeySessions, keptSessions)
	if err != nil {
		return err
	}

	return commitBoth(ctx, tx, exData, sessData)
}

// commitBoth writes encoded exercises and sessions in one transaction.
func commitBoth(ctx context.Context, tx kv.Transactional, exData, sessData string) error {
	err := tx.Update(ctx, func(w kv.Writer) error {
		if err := w.Set(KeyExercises, exData); err != nil {
			return &StorageWriteError{Slot: KeyExercises, Err: err}
		}
		if err := w.Set(KeySessions, sessData); err != nil {
			return &StorageWriteError{Slot: KeySessions, Err: err}
		}
		return nil
	})
	if err != nil {
		var we *StorageWriteError
		if errors.As(err, &we) {
			return err
		}
		return &StorageWriteError{Slot: KeyExercises, Err: err}
	}
	return nil
}

func (s *ExerciseStore) readForCascade(ctx context.Context) ([]models.Exercise, []models.Session, error) {
	exercises, err := readSlot[models.Exercise](ctx, s.backend, KeyExercises)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := readSlot[models.Session](ctx, s.backend, KeySessions)
	if err != nil {
		return nil, nil, err
	}
	return exercises, sessions, nil
}

// filterCascade drops the exercise and its sessions. changed is false when
// neither collection references id.
func filterCascade(exercises []models.Exercise, sessions []models.Session, id string) ([]models.Exercise, []models.Session, bool) {
	keptExercises := make([]models.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if e.ID != id {
			keptExercises = append(keptExercises, e)
		}
	}
	keptSessions := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ExerciseID != id {
			keptSessions = append(keptSessions, sess)
		}
	}
	changed := len(keptExercises) != len(exercises) || len(keptSessions) != len(sessions)
	return keptExercises, keptSessions, changed
}
