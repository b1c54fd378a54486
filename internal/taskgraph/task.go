// Package taskgraph validates task dependency batches, derives lock state and propagates
// completion changes through the dependency graph.
package taskgraph

import (
	"time"
)

// Record is a task as supplied by an external source. It carries no derived state
// and is not trusted: ids may repeat, dependencies may dangle or form cycles.
type Record struct {
	ID            int
	Text          string
	Group         string
	DependencyIDs []int
	CompletedAt   *time.Time // nil while incomplete
}

// Task is a Record enriched with the lock state and the reverse dependency edges.
// Tasks are only created by Build and Updater; collaborators read them through accessors.
type Task struct {
	id            int
	text          string
	group         string
	dependencyIDs []int
	completedAt   *time.Time
	locked        bool
	dependentIDs  []int
}

func (t *Task) ID() int       { return t.id }
func (t *Task) Text() string  { return t.text }
func (t *Task) Group() string { return t.group }

// Locked reports whether at least one direct or indirect dependency is incomplete.
func (t *Task) Locked() bool { return t.locked }

// Completed reports whether the task carries a completion timestamp.
func (t *Task) Completed() bool { return t.completedAt != nil }

// CompletedAt returns the completion time and whether the task is completed.
func (t *Task) CompletedAt() (time.Time, bool) {
	if t.completedAt == nil {
		return time.Time{}, false
	}
	return *t.completedAt, true
}

// DependencyIDs returns the ids of the tasks this task waits for.
func (t *Task) DependencyIDs() []int {
	return append([]int(nil), t.dependencyIDs...)
}

// DependentIDs returns the ids of the tasks waiting for this one.
func (t *Task) DependentIDs() []int {
	return append([]int(nil), t.dependentIDs...)
}

// Record strips the derived fields, producing the ingest shape again.
func (t *Task) Record() Record {
	rec := Record{
		ID:            t.id,
		Text:          t.text,
		Group:         t.group,
		DependencyIDs: t.DependencyIDs(),
	}
	if t.completedAt != nil {
		at := *t.completedAt
		rec.CompletedAt = &at
	}
	return rec
}

// clone copies the task so it can be modified without touching the shared original.
// Edge slices are never modified after Build, so they stay shared.
func (t *Task) clone() *Task {
	cp := *t
	return &cp
}

func fromRecord(rec Record) *Task {
	t := &Task{
		id:            rec.ID,
		text:          rec.Text,
		group:         rec.Group,
		dependencyIDs: append([]int{}, rec.DependencyIDs...),
		dependentIDs:  []int{},
	}
	if rec.CompletedAt != nil {
		at := *rec.CompletedAt
		t.completedAt = &at
	}
	return t
}
