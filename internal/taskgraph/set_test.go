package taskgraph

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// mustBuild builds a set and fails the test on error.
func mustBuild(t *testing.T, records []Record) *Set {
	t.Helper()
	s, err := Build(records)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return s
}

// checkInvariants verifies the properties every Set handed to callers must satisfy.
func checkInvariants(t *testing.T, s *Set) {
	t.Helper()

	for _, task := range s.Tasks() {
		for _, depID := range task.DependencyIDs() {
			dep, err := s.ByID(depID)
			if err != nil {
				t.Fatalf("task %d keeps orphan dependency %d", task.ID(), depID)
			}
			if !containsID(dep.DependentIDs(), task.ID()) {
				t.Errorf("task %d depends on %d but is not listed as its dependent", task.ID(), depID)
			}
		}
		for _, dependentID := range task.DependentIDs() {
			if !containsID(s.MustByID(dependentID).DependencyIDs(), task.ID()) {
				t.Errorf("task %d lists dependent %d which does not depend on it", task.ID(), dependentID)
			}
		}

		if task.Locked() && task.Completed() {
			t.Errorf("task %d is locked and completed", task.ID())
		}
		if want := hasIncompleteAncestor(s, task, map[int]bool{}); task.Locked() != want {
			t.Errorf("task %d locked = %v, want %v", task.ID(), task.Locked(), want)
		}
	}
}

func hasIncompleteAncestor(s *Set, task *Task, seen map[int]bool) bool {
	for _, depID := range task.DependencyIDs() {
		if seen[depID] {
			continue
		}
		seen[depID] = true
		dep := s.MustByID(depID)
		if !dep.Completed() || hasIncompleteAncestor(s, dep, seen) {
			return true
		}
	}
	return false
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func taskIDs(tasks []*Task) []int {
	ids := make([]int, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID())
	}
	return ids
}

// TestBuildNormalSample verifies dependents, lock state and ordering of the sample batch.
func TestBuildNormalSample(t *testing.T) {
	records := normalSample()
	s := mustBuild(t, records)
	checkInvariants(t, s)

	if s.Len() != len(records) {
		t.Fatalf("expected %d tasks, got %d", len(records), s.Len())
	}

	if got := taskIDs(s.Tasks()); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("Tasks() order = %v, want input order", got)
	}

	if got := s.MustByID(1).DependentIDs(); !reflect.DeepEqual(got, []int{2, 3, 4, 5}) {
		t.Errorf("task 1 dependents = %v, want [2 3 4 5]", got)
	}
	if got := s.MustByID(6).DependentIDs(); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("task 6 dependents = %v, want [7]", got)
	}
	if got := s.MustByID(7).DependentIDs(); len(got) != 0 {
		t.Errorf("task 7 dependents = %v, want none", got)
	}

	// Initially every task with dependencies is locked
	for _, task := range s.Tasks() {
		if want := len(task.DependencyIDs()) > 0; task.Locked() != want {
			t.Errorf("task %d locked = %v, want %v", task.ID(), task.Locked(), want)
		}
	}

	if got := s.LockedIDs(); !reflect.DeepEqual(got, []int{2, 3, 4, 5, 6, 7}) {
		t.Errorf("LockedIDs() = %v", got)
	}
	if got := taskIDs(s.Available()); !reflect.DeepEqual(got, []int{1, 8}) {
		t.Errorf("Available() = %v, want [1 8]", got)
	}
}

// TestBuildOrphanDependency verifies dangling ids are dropped silently.
func TestBuildOrphanDependency(t *testing.T) {
	s := mustBuild(t, sampleWithOrphan())
	checkInvariants(t, s)

	task := s.MustByID(1)
	if deps := task.DependencyIDs(); len(deps) != 0 {
		t.Errorf("task 1 dependencies = %v, want orphan removed", deps)
	}
	if task.Locked() {
		t.Error("task 1 should not be locked once its only dependency is dropped")
	}
	if _, err := s.ByID(666); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for orphan id, got %v", err)
	}
	if got := s.MustByID(7).DependentIDs(); len(got) != 0 {
		t.Errorf("task 7 dependents = %v, want none", got)
	}
}

// TestBuildAllCompleted verifies no task is locked when every task is completed.
func TestBuildAllCompleted(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := mustBuild(t, allCompleted(normalSample(), at))
	checkInvariants(t, s)

	for _, task := range s.Tasks() {
		if task.Locked() {
			t.Errorf("task %d should be unlocked", task.ID())
		}
		if got, ok := task.CompletedAt(); !ok || !got.Equal(at) {
			t.Errorf("task %d CompletedAt = %v, %v", task.ID(), got, ok)
		}
	}
}

// TestBuildClearsCompletionOfLockedTasks verifies input completion cannot override a lock,
// and that the cleared completion locks tasks further down the chain.
func TestBuildClearsCompletionOfLockedTasks(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := allCompleted([]Record{
		rec(1, "g", "a"),
		rec(2, "g", "b", 1),
		rec(3, "g", "c", 2),
	}, at)
	records[0].CompletedAt = nil

	s := mustBuild(t, records)
	checkInvariants(t, s)

	for _, id := range []int{2, 3} {
		task := s.MustByID(id)
		if !task.Locked() || task.Completed() {
			t.Errorf("task %d: locked=%v completed=%v, want locked and incomplete", id, task.Locked(), task.Completed())
		}
	}
}

// TestBuildRejectsInvalidBatches verifies precondition violations surface as errors.
func TestBuildRejectsInvalidBatches(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantErr error
	}{
		{name: "direct cycle", records: sampleWithLoop(), wantErr: ErrCyclic},
		{name: "indirect cycle", records: sampleWithIndirectLoop(), wantErr: ErrCyclic},
		{
			name:    "duplicate id",
			records: []Record{rec(1, "g", "a"), rec(1, "g", "b")},
			wantErr: ErrDuplicateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(tt.records)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if s != nil {
				t.Error("expected nil set on error")
			}
		})
	}
}

// TestBuildDuplicateDependency verifies a repeated dependency id yields one dependent entry.
func TestBuildDuplicateDependency(t *testing.T) {
	s := mustBuild(t, []Record{rec(1, "g", "a"), rec(2, "g", "b", 1, 1)})
	checkInvariants(t, s)

	if got := s.MustByID(1).DependentIDs(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("task 1 dependents = %v, want [2]", got)
	}
}

// TestOrder verifies every task follows its dependencies in topological order.
func TestOrder(t *testing.T) {
	s := mustBuild(t, normalSample())
	order := s.Order()
	if len(order) != s.Len() {
		t.Fatalf("Order() returned %d ids, want %d", len(order), s.Len())
	}

	position := make(map[int]int)
	for i, id := range order {
		position[id] = i
	}
	for _, task := range s.Tasks() {
		for _, depID := range task.DependencyIDs() {
			if position[depID] >= position[task.ID()] {
				t.Errorf("dependency %d does not precede task %d in %v", depID, task.ID(), order)
			}
		}
	}
}

// TestRecordsRoundTrip verifies stripping derived fields reproduces the ingest values.
func TestRecordsRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	records := normalSample()
	records[0].CompletedAt = &at

	s := mustBuild(t, records)
	again := mustBuild(t, s.Records())

	if !reflect.DeepEqual(s.Records(), again.Records()) {
		t.Errorf("round trip changed records:\n got %+v\nwant %+v", again.Records(), s.Records())
	}
	if got := s.Records(); !reflect.DeepEqual(got, records) {
		t.Errorf("Records() = %+v, want %+v", got, records)
	}
}

// TestMustByIDPanics verifies lookups of absent ids panic with a *NotFoundError.
func TestMustByIDPanics(t *testing.T) {
	s := mustBuild(t, normalSample())

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected NotFoundError panic, got %v", r)
		}
	}()
	s.MustByID(42)
}

// TestAccessorsReturnCopies verifies callers cannot modify a task's edges.
func TestAccessorsReturnCopies(t *testing.T) {
	s := mustBuild(t, normalSample())
	deps := s.MustByID(6).DependencyIDs()
	deps[0] = 99
	dependents := s.MustByID(1).DependentIDs()
	dependents[0] = 99

	if s.MustByID(6).DependencyIDs()[0] != 2 {
		t.Error("modifying DependencyIDs() result changed the task")
	}
	if s.MustByID(1).DependentIDs()[0] != 2 {
		t.Error("modifying DependentIDs() result changed the task")
	}
}
