package taskgraph

import (
	"fmt"

	"github.com/gammazero/toposort"
)

// Set is an immutable, validated collection of tasks.
// Tasks are indexed by id; the input order and a topological rank are kept alongside.
type Set struct {
	tasks map[int]*Task
	order []int       // ids in input order
	rank  map[int]int // position of each id in a topological order
}

// Build turns a batch of records into a consistent Set:
// orphan dependency ids are dropped, dependents are derived, and lock state is computed.
// A task whose dependencies are not all complete loses any completion timestamp it carried.
//
// Callers are expected to reject cyclic batches with FindCycle first; Build still returns
// a *CycleError (or ErrDuplicateID) rather than producing an inconsistent Set.
func Build(records []Record) (*Set, error) {
	s := &Set{
		tasks: make(map[int]*Task, len(records)),
		order: make([]int, 0, len(records)),
	}

	for _, rec := range records {
		if _, exists := s.tasks[rec.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, rec.ID)
		}
		s.tasks[rec.ID] = fromRecord(rec)
		s.order = append(s.order, rec.ID)
	}

	// Drop orphans. fromRecord gave every task its own slice, so filtering in place is safe.
	for _, id := range s.order {
		task := s.tasks[id]
		kept := task.dependencyIDs[:0]
		for _, depID := range task.dependencyIDs {
			if _, exists := s.tasks[depID]; exists {
				kept = append(kept, depID)
			}
		}
		task.dependencyIDs = kept
	}

	for _, id := range s.order {
		for _, depID := range s.tasks[id].dependencyIDs {
			dep := s.tasks[depID]
			// Repeated dependency ids on one task are consecutive here.
			if n := len(dep.dependentIDs); n > 0 && dep.dependentIDs[n-1] == id {
				continue
			}
			dep.dependentIDs = append(dep.dependentIDs, id)
		}
	}

	rank, err := topoRank(s)
	if err != nil {
		if cycle := FindCycle(records); cycle != nil {
			return nil, &CycleError{Path: cycle}
		}
		return nil, err
	}
	s.rank = rank

	// Dependencies precede dependents in rank order, so each task sees final dependency state.
	for _, id := range s.Order() {
		task := s.tasks[id]
		task.locked = s.hasIncompleteDependency(task)
		if task.locked {
			task.completedAt = nil
		}
	}

	return s, nil
}

// topoRank runs a topological sort over the orphan-free edges.
func topoRank(s *Set) (map[int]int, error) {
	rank := make(map[int]int, len(s.order))
	if len(s.order) == 0 {
		return rank, nil
	}

	var edges []toposort.Edge
	for _, id := range s.order {
		task := s.tasks[id]
		if len(task.dependencyIDs) == 0 {
			// Include tasks without dependencies
			edges = append(edges, toposort.Edge{nil, id})
			continue
		}
		for _, depID := range task.dependencyIDs {
			// Edge (depID, id) means depID must come before id
			edges = append(edges, toposort.Edge{depID, id})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("task graph contains cycle: %w", ErrCyclic)
	}

	for _, node := range sorted {
		if node == nil {
			continue
		}
		rank[node.(int)] = len(rank)
	}
	if len(rank) != len(s.order) {
		return nil, fmt.Errorf("topological sort lost %d tasks", len(s.order)-len(rank))
	}
	return rank, nil
}

// hasIncompleteDependency reports whether any direct dependency is incomplete or itself locked.
// Locked tasks never carry a completion time, so this covers every indirect dependency too.
func (s *Set) hasIncompleteDependency(task *Task) bool {
	for _, depID := range task.dependencyIDs {
		dep := s.MustByID(depID)
		if dep.completedAt == nil || dep.locked {
			return true
		}
	}
	return false
}

// ByID returns the task with the given id, or a *NotFoundError.
func (s *Set) ByID(id int) (*Task, error) {
	task, exists := s.tasks[id]
	if !exists {
		return nil, &NotFoundError{ID: id}
	}
	return task, nil
}

// MustByID is ByID for ids known to be in the set. It panics with a *NotFoundError otherwise.
func (s *Set) MustByID(id int) *Task {
	task, err := s.ByID(id)
	if err != nil {
		panic(err)
	}
	return task
}

// Len returns the number of tasks.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Tasks returns all tasks in input order.
func (s *Set) Tasks() []*Task {
	if s == nil {
		return nil
	}
	tasks := make([]*Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, s.tasks[id])
	}
	return tasks
}

// Order returns the task ids in a topological order: every task follows its dependencies.
func (s *Set) Order() []int {
	if s == nil {
		return nil
	}
	ids := make([]int, len(s.order))
	for _, id := range s.order {
		ids[s.rank[id]] = id
	}
	return ids
}

// Records strips every task back to its ingest shape, in input order.
func (s *Set) Records() []Record {
	records := make([]Record, 0, s.Len())
	for _, task := range s.Tasks() {
		records = append(records, task.Record())
	}
	return records
}

// Available returns the tasks that can be worked on now: unlocked and not completed.
func (s *Set) Available() []*Task {
	var tasks []*Task
	for _, task := range s.Tasks() {
		if !task.locked && task.completedAt == nil {
			tasks = append(tasks, task)
		}
	}
	return tasks
}

// LockedIDs returns the ids of all locked tasks in input order.
func (s *Set) LockedIDs() []int {
	var ids []int
	for _, task := range s.Tasks() {
		if task.locked {
			ids = append(ids, task.id)
		}
	}
	return ids
}
