// ABOUTME: Session model for logged exercise performances.
// ABOUTME: Sessions carry a denormalized exercise name and are ordered by date.
package models

import (
	"time"
)

// Session is one logged performance of an exercise.
//
// ExerciseName is copied from the exercise at creation time so lists can be
// rendered without a lookup. It goes stale if exercises ever become renamable.
type Session struct {
	ID           string    `json:"id" yaml:"id"`
	ExerciseID   string    `json:"exerciseId" yaml:"exercise_id"`
	ExerciseName string    `json:"exerciseName" yaml:"exercise_name"`
	Reps         int       `json:"reps" yaml:"reps"`
	Sets         int       `json:"sets" yaml:"sets"`
	Weight       float64   `json:"weight" yaml:"weight"`
	Date         time.Time `json:"date" yaml:"date"`
}

// SessionInput holds the numeric fields of a new session.
type SessionInput struct {
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Weight float64 `json:"weight"`
}

// NewSession creates a Session dated now. The ID embeds the same instant.
func NewSession(exerciseID, exerciseName string, in SessionInput, now time.Time) *Session {
	now = now.UTC()
	return &Session{
		ID:           NewID(now),
		ExerciseID:   exerciseID,
		ExerciseName: exerciseName,
		Reps:         in.Reps,
		Sets:         in.Sets,
		Weight:       in.Weight,
		Date:         now,
	}
}

// Volume returns reps x sets x weight.
func (s *Session) Volume() float64 {
	return float64(s.Reps*s.Sets) * s.Weight
}

// ProgressPoint is one sample of an exercise's progress series.
type ProgressPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Sets   int       `json:"sets"`
	Volume float64   `json:"volume"`
}

// ProgressPointOf converts a session to a progress sample.
func ProgressPointOf(s Session) ProgressPoint {
	return ProgressPoint{
		Date:   s.Date,
		Weight: s.Weight,
		Reps:   s.Reps,
		Sets:   s.Sets,
		Volume: s.Volume(),
	}
}
