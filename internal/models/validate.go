// ABOUTME: Boundary validation for exercise drafts and session inputs.
// ABOUTME: Rejects empty names and non-positive reps, sets, or weight.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that the draft has a usable name.
func (d ExerciseDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks that every numeric field is strictly positive.
func (in SessionInput) Validate() error {
	if in.Reps <= 0 {
		return &ValidationError{Field: "reps", Reason: "must be greater than zero"}
	}
	if in.Sets <= 0 {
		return &ValidationError{Field: "sets", Reason: "must be greater than zero"}
	}
	if math.IsNaN(in.Weight) || math.IsInf(in.Weight, 0) {
		return &ValidationError{Field: "weight", Reason: "must be a number"}
	}
	if in.Weight <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be greater than zero"}
	}
	return nil
}

// ParseSessionInput parses raw text fields the way a form submits them.
func ParseSessionInput(reps, sets, weight string) (SessionInput, error) {
	if strings.TrimSpace(reps) == "" || strings.TrimSpace(sets) == "" || strings.TrimSpace(weight) == "" {
		return SessionInput{}, &ValidationError{Field: "session", Reason: "reps, sets and weight are required"}
	}

	r, err := strconv.Atoi(strings.TrimSpace(reps))
	if err != nil {
		return SessionInput{}, &ValidationError{Field: "reps", Reason: "must be a whole number"}
	}
	s, err := strconv.Atoi(strings.TrimSpace(sets))
	if err != nil {
		return SessionInput{}, &ValidationError{Field: "sets", Reason: "must be a whole number"}
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil {
		return SessionInput{}, &ValidationError{Field: "weight", Reason: "must be a number"}
	}

	in := SessionInput{Reps: r, Sets: s, Weight: w}
	if err := in.Validate(); err != nil {
		return SessionInput{}, err
	}
	return in, nil
}
