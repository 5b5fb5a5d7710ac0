// ABOUTME: Tests for Exercise model and name normalization.
// ABOUTME: Validates constructor defaults and case/whitespace-insensitive matching.
package models

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNewExercise(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	e := NewExercise(ExerciseDraft{Name: "  Bench Press ", Image: "file:///bench.jpg"}, created)

	if e.ID == "" {
		t.Error("expected ID to be set")
	}
	if e.Name != "Bench Press" {
		t.Errorf("Name = %q, want %q", e.Name, "Bench Press")
	}
	if e.Details != DefaultDetails {
		t.Errorf("Details = %q, want %q", e.Details, DefaultDetails)
	}
	if e.Image != "file:///bench.jpg" {
		t.Errorf("Image = %q, want file:///bench.jpg", e.Image)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, created)
	}
}

func TestNewExerciseIDMatchesCreatedAt(t *testing.T) {
	created := time.Date(2024, 11, 5, 18, 30, 0, 0, time.FixedZone("CET", 3600))
	e := NewExercise(ExerciseDraft{Name: "Row"}, created)

	id, err := ulid.ParseStrict(e.ID)
	if err != nil {
		t.Fatalf("ID %q is not a ULID: %v", e.ID, err)
	}
	if got := ulid.Time(id.Time()); !got.Equal(created) {
		t.Errorf("ID timestamp = %v, want %v", got, created)
	}
	if e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", e.CreatedAt.Location())
	}
}

func TestNewExerciseKeepsDetails(t *testing.T) {
	e := NewExercise(ExerciseDraft{Name: "Squat", Details: " low bar "}, time.Now())
	if e.Details != "low bar" {
		t.Errorf("Details = %q, want %q", e.Details, "low bar")
	}
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Bench", "bench", true},
		{"Bench", "bench ", true},
		{"  BENCH", "Bench", true},
		{"Bench", "Bench Press", false},
		{"", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := SameName(tt.a, tt.b); got != tt.want {
				t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNewIDMonotonic(t *testing.T) {
	now := time.Now()
	e1 := NewExercise(ExerciseDraft{Name: "a"}, now)
	e2 := NewExercise(ExerciseDraft{Name: "b"}, now)
	if e1.ID >= e2.ID {
		t.Errorf("expected increasing IDs, got %s then %s", e1.ID, e2.ID)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(abc) = %q", got)
	}
	id := "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	if got := ShortID(id); got != "Q69G5FAV" {
		t.Errorf("ShortID(%s) = %q", id, got)
	}
}
