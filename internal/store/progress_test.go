// ABOUTME: Tests for summaries, progress series, and personal bests.
// ABOUTME: Verifies ordering and limits of derived views.
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Bench")
	for i := 0; i < 12; i++ {
		mustSession(t, s, e, 5, 5, float64(60+i))
	}

	points := s.Progress(ctx, e.ID, 0)
	require.Len(t, points, DefaultProgressLimit)
	assert.Equal(t, 62.0, points[0].Weight, "oldest of the ten most recent")
	assert.Equal(t, 71.0, points[len(points)-1].Weight)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].Date.After(points[i-1].Date))
	}
	assert.Equal(t, 5.0*5.0*71.0, points[len(points)-1].Volume)

	assert.Len(t, s.Progress(ctx, e.ID, 3), 3)
	assert.Empty(t, s.Progress(ctx, "missing", 5))
}

func TestPersonalBest(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Deadlift")

	mustSession(t, s, e, 5, 1, 140)
	first := mustSession(t, s, e, 3, 1, 160)
	mustSession(t, s, e, 1, 1, 160)
	mustSession(t, s, e, 8, 1, 120)

	best, ok := s.PersonalBest(ctx, e.ID)
	require.True(t, ok)
	assert.Equal(t, first.ID, best.ID)

	_, ok = s.PersonalBest(ctx, "missing")
	assert.False(t, ok)
}

func TestListExerciseSummaries(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	bench := mustExercise(t, s, "Bench")
	mustExercise(t, s, "Plank")
	mustSession(t, s, bench, 8, 3, 100)
	last := mustSession(t, s, bench, 8, 3, 102.5)

	summaries := s.ListExerciseSummaries(ctx)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Bench", summaries[0].Name)
	require.NotNil(t, summaries[0].LastSession)
	assert.Equal(t, last.ID, summaries[0].LastSession.ID)
	assert.Nil(t, summaries[1].LastSession)
}

func TestGetExerciseWithSessions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	e := mustExercise(t, s, "Pull-up")
	mustSession(t, s, e, 8, 3, 1)
	last := mustSession(t, s, e, 10, 3, 1)

	got, ok := s.GetExerciseWithSessions(ctx, e.ID)
	require.True(t, ok)
	assert.Equal(t, e.ID, got.ID)
	assert.Len(t, got.Sessions, 2)
	require.NotNil(t, got.LastSession)
	assert.Equal(t, last.ID, got.LastSession.ID)

	_, ok = s.GetExerciseWithSessions(ctx, "missing")
	assert.False(t, ok)
}

func TestRecentSessions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a := mustExercise(t, s, "A")
	b := mustExercise(t, s, "B")
	mustSession(t, s, a, 1, 1, 1)
	mustSession(t, s, b, 1, 1, 1)
	newest := mustSession(t, s, a, 1, 1, 1)

	recent := s.RecentSessions(ctx, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, newest.ID, recent[0].ID)
}
