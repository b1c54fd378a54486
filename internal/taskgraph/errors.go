package taskgraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrCyclic is matched by every CycleError.
	ErrCyclic = errors.New("dependency cycle")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID is returned when a batch carries the same id twice.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrTaskLocked is matched by LockedTaskError.
	ErrTaskLocked = errors.New("task is locked")
)

// CycleError reports a dependency cycle. Path starts and ends with the same id.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCyclic }

// NotFoundError is returned when an id is absent from a Set.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no task with ID=%d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// LockedTaskError is returned by RejectLocked when a locked task is completed.
type LockedTaskError struct {
	ID int
}

func (e *LockedTaskError) Error() string {
	return fmt.Sprintf("task %d cannot be completed while its dependencies are incomplete", e.ID)
}

func (e *LockedTaskError) Is(target error) bool { return target == ErrTaskLocked }
