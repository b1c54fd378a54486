// Package report formats task lists and group summaries for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/aristath/taskboard/internal/ingest"
	"github.com/aristath/taskboard/internal/taskgraph"
)

// barWidth is the width of group progress bars, in cells.
const barWidth = 20

// Task status labels
const (
	StatusCompleted = "done"
	StatusAvailable = "open"
	StatusLocked    = "locked"
)

// Printer writes reports to w. Colors follow the terminal unless disabled.
type Printer struct {
	w      io.Writer
	styles styles
}

// NewPrinter creates a printer for w. With color false every style renders as plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{w: w, styles: newStyles(r)}
}

// Status returns the label of a task's state.
func Status(task *taskgraph.Task) string {
	switch {
	case task.Completed():
		return StatusCompleted
	case task.Locked():
		return StatusLocked
	default:
		return StatusAvailable
	}
}

// ProgressBar renders completed/total as a bar of width cells, e.g. "[====......]".
func ProgressBar(completed, total, width int) string {
	if total <= 0 || width <= 0 {
		return "[" + strings.Repeat(".", max(0, width)) + "]"
	}
	done := min(width, (completed*width)/total)
	return "[" + strings.Repeat("=", done) + strings.Repeat(".", width-done) + "]"
}

// Groups writes the group summary as a table followed by overall totals.
func (p *Printer) Groups(groups []taskgraph.Group) error {
	var total, completed int
	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{
			g.Name,
			fmt.Sprintf("%d/%d", g.CompletedTaskCount, g.TaskCount),
			ProgressBar(g.CompletedTaskCount, g.TaskCount, barWidth),
		}
		total += g.TaskCount
		completed += g.CompletedTaskCount
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.styles.border).
		Headers("GROUP", "DONE", "PROGRESS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.styles.header
			}
			if col == 1 && groups[row].CompletedTaskCount == groups[row].TaskCount {
				return p.styles.completed.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	_, err := fmt.Fprintf(p.w, "%s\n%s %d/%d tasks completed\n",
		t.Render(), p.styles.title.Render("Total:"), completed, total)
	return err
}

// Tasks writes one line per task: status, id, text and group, followed by its dependencies.
func (p *Printer) Tasks(tasks []*taskgraph.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.muted.Render("no tasks"))
		return err
	}

	idWidth := 0
	for _, task := range tasks {
		idWidth = max(idWidth, len(strconv.Itoa(task.ID())))
	}

	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(p.statusLabel(task))
		fmt.Fprintf(&b, " %*d  %s  %s", idWidth, task.ID(), task.Text(), p.styles.muted.Render("("+task.Group()+")"))
		if deps := task.DependencyIDs(); len(deps) > 0 {
			b.WriteString(p.styles.muted.Render("  after " + joinIDs(deps)))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) statusLabel(task *taskgraph.Task) string {
	label := fmt.Sprintf("%-6s", Status(task))
	switch Status(task) {
	case StatusCompleted:
		return p.styles.completed.Render(label)
	case StatusLocked:
		return p.styles.locked.Render(label)
	default:
		return p.styles.available.Render(label)
	}
}

// Change writes the effect of a completion toggle.
func (p *Printer) Change(change taskgraph.Change, completed bool) error {
	verb := "completed"
	if !completed {
		verb = "reopened"
	}
	if !change.Applied {
		_, err := fmt.Fprintf(p.w, "task %d: %s\n", change.ID, p.styles.muted.Render("unchanged"))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "task %d: %s\n", change.ID, p.styles.title.Render(verb))
	if len(change.Unlocked) > 0 {
		fmt.Fprintf(&b, "  unlocked: %s\n", p.styles.available.Render(joinIDs(change.Unlocked)))
	}
	if len(change.Locked) > 0 {
		fmt.Fprintf(&b, "  locked: %s\n", p.styles.locked.Render(joinIDs(change.Locked)))
	}
	if len(change.Uncompleted) > 0 {
		fmt.Fprintf(&b, "  reopened: %s\n", p.styles.failed.Render(joinIDs(change.Uncompleted)))
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Check writes one line per checked file and returns how many failed.
func (p *Printer) Check(results []ingest.FileResult) (int, error) {
	failed := 0
	var b strings.Builder
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(&b, "%s %s: %v\n", p.styles.failed.Render("FAIL"), res.Path, res.Err)
			continue
		}
		fmt.Fprintf(&b, "%s %s: %d tasks\n", p.styles.completed.Render("ok  "), res.Path, res.Tasks)
	}
	_, err := io.WriteString(p.w, b.String())
	return failed, err
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
