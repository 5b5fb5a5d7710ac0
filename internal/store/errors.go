// ABOUTME: Error taxonomy for the exercise store.
// ABOUTME: Read errors are logged and swallowed; write errors propagate to callers.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// StorageReadError reports a failed or malformed read of a slot.
type StorageReadError struct {
	Slot string
	Err  error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Slot, e.Err)
}

func (e *StorageReadError) Unwrap() error {
	return e.Err
}

// StorageWriteError reports a failed write of a slot.
type StorageWriteError struct {
	Slot string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Slot, e.Err)
}

func (e *StorageWriteError) Unwrap() error {
	return e.Err
}

// PartialDeleteError reports a cascade delete that removed the exercise but
// not its sessions. The pending intent is replayed by Recover.
type PartialDeleteError struct {
	ExerciseID      string
	ExerciseRemoved bool
	SessionsRemoved bool
	Err             error
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("delete exercise %s: exercise removed=%t, sessions removed=%t: %v",
		e.ExerciseID, e.ExerciseRemoved, e.SessionsRemoved, e.Err)
}

func (e *PartialDeleteError) Unwrap() error {
	return e.Err
}

// AmbiguousError is returned when a short reference matches several records.
type AmbiguousError struct {
	Ref     string
	Matches int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous reference %s: matches %d records", e.Ref, e.Matches)
}
