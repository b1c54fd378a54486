// Package board owns the current task list and applies commands to it one at a time.
package board

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/taskboard/internal/events"
	"github.com/aristath/taskboard/internal/ingest"
	"github.com/aristath/taskboard/internal/taskgraph"
)

// Options configures a Board.
type Options struct {
	Updater    taskgraph.Updater    // Lock policy and clock for completion toggles
	Summarizer taskgraph.Summarizer // Collation for group summaries
	Bus        *events.EventBus     // Optional; nil disables events
}

// Board holds the single current task set. Every command replaces it with a new set,
// so readers holding an older set are never affected.
type Board struct {
	opts      Options
	mu        sync.Mutex
	tasks     *taskgraph.Set
	lastError string
}

// New creates a board with an empty task list.
func New(opts Options) *Board {
	empty, _ := taskgraph.Build(nil)
	return &Board{opts: opts, tasks: empty}
}

// Tasks returns the current task set.
func (b *Board) Tasks() *taskgraph.Set {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tasks
}

// LastError returns the message of the last rejected command, or "" after a successful one.
func (b *Board) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastError
}

// Groups summarizes the current task set.
func (b *Board) Groups() []taskgraph.Group {
	return b.opts.Summarizer.Summarize(b.Tasks())
}

// GroupTasks returns the current tasks of one group.
func (b *Board) GroupTasks(group string) []*taskgraph.Task {
	return taskgraph.GroupTasks(b.Tasks(), group)
}

// Load replaces the task list with records. A rejected batch leaves the current list in place.
func (b *Board) Load(records []taskgraph.Record) error {
	if err := ingest.Validate(records); err != nil {
		return b.reject(err)
	}
	s, err := taskgraph.Build(records)
	if err != nil {
		return b.reject(err)
	}

	b.mu.Lock()
	b.tasks = s
	b.lastError = ""
	b.mu.Unlock()

	b.publish(events.TopicBoard, events.ListLoadedEvent{
		Total:     s.Len(),
		Locked:    len(s.LockedIDs()),
		Timestamp: time.Now(),
	})
	b.publishProgress(s)
	return nil
}

// LoadJSON decodes a JSON task list and loads it.
func (b *Board) LoadJSON(data []byte) error {
	records, err := ingest.Decode(data)
	if err != nil {
		return b.reject(err)
	}
	return b.Load(records)
}

// Export encodes the current task list in its JSON ingest shape.
func (b *Board) Export() ([]byte, error) {
	return ingest.Encode(b.Tasks())
}

// SetCompletion toggles a task's completion against the current list.
// Calls are serialized so each one sees the result of the previous one.
func (b *Board) SetCompletion(id int, completed bool) (taskgraph.Change, error) {
	b.mu.Lock()
	next, change, err := b.opts.Updater.Apply(b.tasks, id, completed)
	if err != nil {
		b.lastError = err.Error()
		b.mu.Unlock()
		return change, err
	}
	b.tasks = next
	b.lastError = ""
	b.mu.Unlock()

	if change.Applied {
		b.publish(events.TopicTask, events.CompletionChangedEvent{
			ID:          id,
			Completed:   completed,
			Unlocked:    change.Unlocked,
			Locked:      change.Locked,
			Uncompleted: change.Uncompleted,
			Timestamp:   time.Now(),
		})
		b.publishProgress(next)
	}
	return change, nil
}

func (b *Board) reject(err error) error {
	reason := err.Error()
	var cycleErr *taskgraph.CycleError
	var cycle []int
	if errors.As(err, &cycleErr) {
		cycle = cycleErr.Path
		reason = fmt.Sprintf("There is a loop in the data: %v", cycle)
	}

	b.mu.Lock()
	b.lastError = reason
	b.mu.Unlock()

	b.publish(events.TopicBoard, events.LoadRejectedEvent{
		Reason:    reason,
		Cycle:     cycle,
		Timestamp: time.Now(),
	})
	return err
}

func (b *Board) publishProgress(s *taskgraph.Set) {
	if b.opts.Bus == nil {
		return
	}
	b.publish(events.TopicGroup, events.GroupProgressEvent{
		Groups:    b.opts.Summarizer.Summarize(s),
		Timestamp: time.Now(),
	})
}

func (b *Board) publish(topic string, event events.Event) {
	b.opts.Bus.Publish(topic, event)
}
