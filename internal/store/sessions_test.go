// ABOUTME: Tests for session logging, ordering, lookup, and deletion.
// ABOUTME: Dates come from a stepping clock so ordering is deterministic.
package store

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/kv"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSessionRoundTrip(t *testing.T) {
	s := New(kv.NewMemoryBackend())
	ctx := context.Background()

	before := time.Now().UTC()
	saved, err := s.SaveSession(ctx, "ex-1", "Bench", models.SessionInput{Reps: 8, Sets: 3, Weight: 100})
	require.NoError(t, err)
	after := time.Now().UTC()

	sessions := s.GetSessionsByExercise(ctx, "ex-1")
	require.Len(t, sessions, 1)
	got := sessions[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Bench", got.ExerciseName)
	assert.Equal(t, 8, got.Reps)
	assert.Equal(t, 3, got.Sets)
	assert.Equal(t, 100.0, got.Weight)
	assert.False(t, got.Date.Before(before))
	assert.False(t, got.Date.After(after))
}

func TestSaveSessionIDMatchesDate(t *testing.T) {
	s, _ := newTestStore(t)
	e := mustExercise(t, s, "Bench")

	sess := mustSession(t, s, e, 8, 3, 100)

	id, err := ulid.ParseStrict(sess.ID)
	require.NoError(t, err)
	assert.True(t, ulid.Time(id.Time()).Equal(sess.Date))
	assert.True(t, sess.Date.Equal(baseTime.Add(time.Minute)))
}

func TestGetSessionsByExerciseOrdering(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Squat")
	other := mustExercise(t, s, "Curl")

	s1 := mustSession(t, s, e, 5, 5, 100)
	mustSession(t, s, other, 10, 3, 15)
	s2 := mustSession(t, s, e, 5, 5, 105)
	s3 := mustSession(t, s, e, 5, 5, 110)

	sessions := s.GetSessionsByExercise(ctx, e.ID)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{s3.ID, s2.ID, s1.ID},
		[]string{sessions[0].ID, sessions[1].ID, sessions[2].ID})

	last, ok := s.GetLastSession(ctx, e.ID)
	require.True(t, ok)
	assert.Equal(t, s3.ID, last.ID)

	all := s.ListSessions(ctx)
	require.Len(t, all, 4)
	assert.Equal(t, s1.ID, all[0].ID, "ListSessions keeps storage order")
}

func TestGetSessionsByExerciseTiesKeepInsertionOrder(t *testing.T) {
	mem := kv.NewMemoryBackend()
	s := New(mem, WithClock(func() time.Time { return baseTime }))
	ctx := context.Background()

	a, err := s.SaveSession(ctx, "ex", "Row", models.SessionInput{Reps: 1, Sets: 1, Weight: 1})
	require.NoError(t, err)
	b, err := s.SaveSession(ctx, "ex", "Row", models.SessionInput{Reps: 2, Sets: 2, Weight: 2})
	require.NoError(t, err)

	sessions := s.GetSessionsByExercise(ctx, "ex")
	require.Len(t, sessions, 2)
	assert.Equal(t, a.ID, sessions[0].ID)
	assert.Equal(t, b.ID, sessions[1].ID)
}

func TestSaveSessionValidation(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		exerciseID string
		in         models.SessionInput
		field      string
	}{
		{"missing exercise", "", models.SessionInput{Reps: 1, Sets: 1, Weight: 1}, "exerciseId"},
		{"zero reps", "ex", models.SessionInput{Reps: 0, Sets: 1, Weight: 1}, "reps"},
		{"negative sets", "ex", models.SessionInput{Reps: 1, Sets: -2, Weight: 1}, "sets"},
		{"zero weight", "ex", models.SessionInput{Reps: 1, Sets: 1, Weight: 0}, "weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveSession(ctx, tt.exerciseID, "Row", tt.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Zero(t, mem.SetCalls())
}

func TestSaveSessionAllowsUnknownExercise(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSession(ctx, "never-created", "Ghost", models.SessionInput{Reps: 1, Sets: 1, Weight: 1})
	require.NoError(t, err)
	assert.Len(t, s.ListSessions(ctx), 1)
}

func TestDeleteSession(t *testing.T) {
	s, mem := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Dip")
	keep := mustSession(t, s, e, 10, 3, 10)
	drop := mustSession(t, s, e, 12, 3, 10)

	require.NoError(t, s.DeleteSession(ctx, drop.ID))
	sessions := s.ListSessions(ctx)
	require.Len(t, sessions, 1)
	assert.Equal(t, keep.ID, sessions[0].ID)

	calls := mem.SetCalls()
	require.NoError(t, s.DeleteSession(ctx, "missing"))
	assert.Equal(t, calls, mem.SetCalls())
}

func TestFindSession(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Lunge")
	sess := mustSession(t, s, e, 10, 3, 20)

	got, err := s.FindSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	got, err = s.FindSession(ctx, models.ShortID(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	_, err = s.FindSession(ctx, "Lunge")
	assert.ErrorIs(t, err, ErrNotFound)
}
