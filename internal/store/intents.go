// ABOUTME: Write-ahead intent journal for multi-slot mutations on non-transactional backends.
// ABOUTME: Recover replays unfinished intents; replay is idempotent.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const opDeleteExercise = "delete_exercise"

// intent records a mutation that spans more than one slot.
type intent struct {
	ID         uuid.UUID `json:"id"`
	Op         string    `json:"op"`
	ExerciseID string    `json:"exerciseId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newIntent(op, exerciseID string, now time.Time) intent {
	return intent{
		ID:         uuid.New(),
		Op:         op,
		ExerciseID: exerciseID,
		CreatedAt:  now,
	}
}

func (s *ExerciseStore) appendIntent(ctx context.Context, in intent) error {
	intents, err := readSlot[intent](ctx, s.backend, KeyIntents)
	if err != nil {
		return err
	}
	intents = append(intents, in)
	return writeSlot(ctx, s.backend, KeyIntents, intents)
}

func (s *ExerciseStore) dropIntent(ctx context.Context, id uuid.UUID) error {
	intents, err := readSlot[intent](ctx, s.backend, KeyIntents)
	if err != nil {
		return err
	}
	kept := intents[:0]
	for _, in := range intents {
		if in.ID != id {
			kept = append(kept, in)
		}
	}
	if len(kept) == 0 {
		if err := s.backend.RemoveMany(ctx, KeyIntents); err != nil {
			return &StorageWriteError{Slot: KeyIntents, Err: err}
		}
		return nil
	}
	return writeSlot(ctx, s.backend, KeyIntents, kept)
}

// PendingIntents returns the number of journaled mutations not yet completed.
func (s *ExerciseStore) PendingIntents(ctx context.Context) int {
	return len(loadSlot[intent](ctx, s, KeyIntents))
}

// Recover replays every pending intent. Intents with an unknown op are
// dropped with a warning. An unreadable journal is logged and skipped, and
// an intent whose slots cannot be read stays pending for the next open.
// Only write failures are returned.
func (s *ExerciseStore) Recover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intents, err := readSlot[intent](ctx, s.backend, KeyIntents)
	if err != nil {
		s.log.Warn("skipping intent recovery", zap.Error(err))
		return nil
	}

	for _, in := range intents {
		switch in.Op {
		case opDeleteExercise:
			err := s.replayDeleteExercise(ctx, in.ExerciseID)
			var readErr *StorageReadError
			if errors.As(err, &readErr) {
				s.log.Warn("keeping intent with unreadable slots",
					zap.String("intent", in.ID.String()),
					zap.String("exercise_id", in.ExerciseID), zap.Error(err))
				continue
			}
			if err != nil {
				return fmt.Errorf("replay %s %s: %w", in.Op, in.ExerciseID, err)
			}
			s.log.Info("completed interrupted exercise delete",
				zap.String("exercise_id", in.ExerciseID), zap.Time("started_at", in.CreatedAt))
		default:
			s.log.Warn("dropping unknown intent", zap.String("op", in.Op), zap.String("intent", in.ID.String()))
		}
		if err := s.dropIntent(ctx, in.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExerciseStore) replayDeleteExercise(ctx context.Context, id string) error {
	exercises, sessions, err := s.readForCascade(ctx)
	if err != nil {
		return err
	}
	keptExercises, keptSessions, changed := filterCascade(exercises, sessions, id)
	if !changed {
		return nil
	}
	if len(keptExercises) != len(exercises) {
		if err := writeSlot(ctx, s.backend, KeyExercises, keptExercises); err != nil {
			return err
		}
	}
	if len(keptSessions) != len(sessions) {
		return writeSlot(ctx, s.backend, KeySessions, keptSessions)
	}
	return nil
}
