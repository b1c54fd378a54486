package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aristath/taskboard/internal/events"
	"github.com/aristath/taskboard/internal/taskgraph"
)

func TestEventLogger(t *testing.T) {
	progress := events.GroupProgressEvent{Groups: []taskgraph.Group{
		{Name: "Purchases", TaskCount: 5, CompletedTaskCount: 1},
	}}

	tests := []struct {
		name    string
		debug   bool
		event   events.Event
		want    []string
		wantOut bool
	}{
		{
			name:    "loaded",
			event:   events.ListLoadedEvent{Total: 8, Locked: 6},
			want:    []string{"INFO", "task list loaded", "total=8", "locked=6"},
			wantOut: true,
		},
		{
			name:    "rejected",
			event:   events.LoadRejectedEvent{Reason: "loop", Cycle: []int{1, 2, 1}},
			want:    []string{"ERRO", "task list rejected", "reason=loop"},
			wantOut: true,
		},
		{
			name:    "completion",
			event:   events.CompletionChangedEvent{ID: 1, Completed: true, Unlocked: []int{2}},
			want:    []string{"completion changed", "id=1", "completed=true", "unlocked=2"},
			wantOut: true,
		},
		{
			name:  "progress hidden without debug",
			event: progress,
		},
		{
			name:    "progress at debug",
			debug:   true,
			event:   progress,
			want:    []string{"group progress", "completed=1", "total=5"},
			wantOut: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewEventLogger(&buf, tt.debug).Log(tt.event)

			out := buf.String()
			if (out != "") != tt.wantOut {
				t.Fatalf("unexpected output presence: %q", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q: %q", want, out)
				}
			}
		})
	}
}

func TestEventLoggerRun(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewEventBus()
	ch := bus.SubscribeAll(10)

	done := make(chan struct{})
	go func() {
		NewEventLogger(&buf, false).Run(ch)
		close(done)
	}()

	bus.Publish(events.TopicBoard, events.ListLoadedEvent{Total: 3, Timestamp: time.Now()})
	bus.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the bus closed")
	}
	if !strings.Contains(buf.String(), "total=3") {
		t.Errorf("expected loaded event in output, got %q", buf.String())
	}
}
