package events

import (
	"time"

	"github.com/aristath/taskboard/internal/taskgraph"
)

// Event is implemented by everything published on the bus.
type Event interface {
	EventType() string
}

// Topic constants
const (
	TopicBoard = "board" // Whole task list replaced or rejected
	TopicTask  = "task"  // Single-task changes
	TopicGroup = "group" // Group progress after any change
)

// Event type constants
const (
	EventTypeListLoaded       = "board.loaded"
	EventTypeLoadRejected     = "board.rejected"
	EventTypeCompletionChange = "task.completion"
	EventTypeGroupProgress    = "group.progress"
)

// ListLoadedEvent is published when a new task list becomes current.
type ListLoadedEvent struct {
	Total     int
	Locked    int
	Timestamp time.Time
}

func (e ListLoadedEvent) EventType() string { return EventTypeListLoaded }

// LoadRejectedEvent is published when a batch is refused. The current list is kept.
type LoadRejectedEvent struct {
	Reason    string
	Cycle     []int // Set when the batch contained a dependency cycle
	Timestamp time.Time
}

func (e LoadRejectedEvent) EventType() string { return EventTypeLoadRejected }

// CompletionChangedEvent is published after a completion toggle changed the task list.
type CompletionChangedEvent struct {
	ID          int
	Completed   bool
	Unlocked    []int
	Locked      []int
	Uncompleted []int
	Timestamp   time.Time
}

func (e CompletionChangedEvent) EventType() string { return EventTypeCompletionChange }

// GroupProgressEvent carries the group summary of the current task list.
type GroupProgressEvent struct {
	Groups    []taskgraph.Group
	Timestamp time.Time
}

func (e GroupProgressEvent) EventType() string { return EventTypeGroupProgress }

// Totals sums task and completed counts over all groups.
func (e GroupProgressEvent) Totals() (total, completed int) {
	for _, g := range e.Groups {
		total += g.TaskCount
		completed += g.CompletedTaskCount
	}
	return total, completed
}
