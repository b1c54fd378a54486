package report

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/aristath/taskboard/internal/events"
)

// EventLogger writes board events as leveled log lines.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger creates an event logger writing to w.
// Group progress is logged at debug level and only shows when debug is true.
func NewEventLogger(w io.Writer, debug bool) *EventLogger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return &EventLogger{logger: log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "taskboard",
	})}
}

// Log writes one event.
func (l *EventLogger) Log(event events.Event) {
	switch ev := event.(type) {
	case events.ListLoadedEvent:
		l.logger.Info("task list loaded", "total", ev.Total, "locked", ev.Locked)
	case events.LoadRejectedEvent:
		fields := []any{"reason", ev.Reason}
		if len(ev.Cycle) > 0 {
			fields = append(fields, "cycle", joinIDs(ev.Cycle))
		}
		l.logger.Error("task list rejected", fields...)
	case events.CompletionChangedEvent:
		fields := []any{"id", ev.ID, "completed", ev.Completed}
		if len(ev.Unlocked) > 0 {
			fields = append(fields, "unlocked", joinIDs(ev.Unlocked))
		}
		if len(ev.Locked) > 0 {
			fields = append(fields, "locked", joinIDs(ev.Locked))
		}
		if len(ev.Uncompleted) > 0 {
			fields = append(fields, "reopened", joinIDs(ev.Uncompleted))
		}
		l.logger.Info("completion changed", fields...)
	case events.GroupProgressEvent:
		total, completed := ev.Totals()
		l.logger.Debug("group progress", "groups", len(ev.Groups), "completed", completed, "total", total)
	default:
		l.logger.Warn("unknown event", "type", event.EventType())
	}
}

// Run logs events from ch until it is closed.
func (l *EventLogger) Run(ch <-chan events.Event) {
	for event := range ch {
		l.Log(event)
	}
}
