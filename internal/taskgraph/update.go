package taskgraph

import (
	"fmt"
	"sort"
	"time"
)

// LockPolicy determines what happens when a locked task is marked completed.
type LockPolicy int

const (
	IgnoreLocked LockPolicy = iota // Return the set unchanged
	RejectLocked                   // Return a *LockedTaskError
)

// ParseLockPolicy converts a config value ("ignore" or "reject") to a LockPolicy.
func ParseLockPolicy(s string) (LockPolicy, error) {
	switch s {
	case "", "ignore":
		return IgnoreLocked, nil
	case "reject":
		return RejectLocked, nil
	}
	return IgnoreLocked, fmt.Errorf("unknown lock policy %q (want ignore or reject)", s)
}

func (p LockPolicy) String() string {
	if p == RejectLocked {
		return "reject"
	}
	return "ignore"
}

// onLockedCompletion is the single place deciding the outcome of completing a locked task.
func (p LockPolicy) onLockedCompletion(task *Task) error {
	if p == RejectLocked {
		return &LockedTaskError{ID: task.id}
	}
	return nil
}

// Change describes the effect of one completion toggle.
type Change struct {
	ID          int   // Target task
	Applied     bool  // False when the toggle was ignored or changed nothing
	Unlocked    []int // Dependents that became unlocked
	Locked      []int // Dependents that became locked
	Uncompleted []int // Dependents whose completion was cleared because they became locked
}

// Updater applies completion toggles to a Set.
type Updater struct {
	Policy LockPolicy
	Now    func() time.Time // Defaults to time.Now
}

// SetCompletion toggles completion with the default Updater.
func SetCompletion(s *Set, id int, completed bool) (*Set, error) {
	return Updater{}.SetCompletion(s, id, completed)
}

// SetCompletion marks the task completed or incomplete and recomputes every transitive dependent.
// The input set is not modified.
func (u Updater) SetCompletion(s *Set, id int, completed bool) (*Set, error) {
	next, _, err := u.Apply(s, id, completed)
	return next, err
}

// Apply is SetCompletion that also reports which dependents changed state.
func (u Updater) Apply(s *Set, id int, completed bool) (*Set, Change, error) {
	change := Change{ID: id}

	target, err := s.ByID(id)
	if err != nil {
		return s, change, err
	}

	if completed && target.locked {
		return s, change, u.Policy.onLockedCompletion(target)
	}

	updated := target.clone()
	switch {
	case completed && target.completedAt == nil:
		now := u.now()
		updated.completedAt = &now
	case !completed:
		updated.completedAt = nil
	}
	if updated.Completed() == target.Completed() {
		// Already in the requested state; timestamps are kept.
		return s, change, nil
	}
	change.Applied = true

	next := s.withTask(updated)
	for _, depID := range next.reachableDependents(updated) {
		current := next.tasks[depID]
		locked := next.hasIncompleteDependency(current)
		if locked == current.locked {
			continue
		}

		recomputed := current.clone()
		recomputed.locked = locked
		if locked {
			change.Locked = append(change.Locked, depID)
			if recomputed.completedAt != nil {
				recomputed.completedAt = nil
				change.Uncompleted = append(change.Uncompleted, depID)
			}
		} else {
			change.Unlocked = append(change.Unlocked, depID)
		}
		next.tasks[depID] = recomputed
	}

	return next, change, nil
}

func (u Updater) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// withTask returns a shallow copy of the set with one task replaced.
// The id index is copied; order and rank never change after Build and stay shared.
func (s *Set) withTask(task *Task) *Set {
	tasks := make(map[int]*Task, len(s.tasks))
	for id, t := range s.tasks {
		tasks[id] = t
	}
	tasks[task.id] = task
	return &Set{tasks: tasks, order: s.order, rank: s.rank}
}

// reachableDependents collects every task transitively depending on task, each once,
// sorted by topological rank so dependencies are recomputed before their dependents.
func (s *Set) reachableDependents(task *Task) []int {
	visited := make(map[int]bool)
	var ids []int
	queue := append([]int(nil), task.dependentIDs...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		ids = append(ids, id)
		queue = append(queue, s.MustByID(id).dependentIDs...)
	}

	sort.Slice(ids, func(i, j int) bool {
		return s.rank[ids[i]] < s.rank[ids[j]]
	})
	return ids
}
