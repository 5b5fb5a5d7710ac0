// ABOUTME: Exercise model and name normalization for the exercise log.
// ABOUTME: Exercises are immutable once created; names are unique case-insensitively.
package models

import (
	"strings"
	"time"
)

// DefaultDetails is stored when an exercise is saved without a description.
const DefaultDetails = "No details"

// Exercise is a named movement the user trains.
type Exercise struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Details   string    `json:"details" yaml:"details"`
	Image     string    `json:"image" yaml:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// ExerciseDraft holds the caller-supplied fields of a new exercise.
type ExerciseDraft struct {
	Name    string `json:"name"`
	Details string `json:"details,omitempty"`
	Image   string `json:"image,omitempty"`
}

// NewExercise builds an Exercise from a draft created at now. The ID
// embeds the same instant.
func NewExercise(d ExerciseDraft, now time.Time) *Exercise {
	details := strings.TrimSpace(d.Details)
	if details == "" {
		details = DefaultDetails
	}
	now = now.UTC()
	return &Exercise{
		ID:        NewID(now),
		Name:      strings.TrimSpace(d.Name),
		Details:   details,
		Image:     d.Image,
		CreatedAt: now,
	}
}

// NormalizeName returns the comparison key for exercise names.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether two names refer to the same exercise.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// ExerciseWithSessions is an exercise together with its history.
// Sessions are ordered most recent first.
type ExerciseWithSessions struct {
	Exercise
	Sessions    []Session `json:"sessions"`
	LastSession *Session  `json:"lastSession,omitempty"`
}

// ExerciseSummary is an exercise with its latest session, if any.
type ExerciseSummary struct {
	Exercise
	LastSession *Session `json:"lastSession,omitempty"`
}
