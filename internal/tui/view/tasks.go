package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/tui/styles"
	"github.com/jsonharmony/harmony/internal/util"
)

// TasksView renders the task table, most recent first.
type TasksView struct{}

// NewTasksView creates a new TasksView.
func NewTasksView() *TasksView {
	return &TasksView{}
}

// Render produces the task table. The filter matches against the task ID
// and the assigned worker's ID. Rows wider than width are truncated without
// breaking the styling escape sequences; width <= 0 disables truncation.
func (v *TasksView) Render(tasks []compute.Task, match MatchFunc, scroll, maxRows, width int) string {
	var b strings.Builder

	visible := make([]compute.Task, 0, len(tasks))
	for _, t := range tasks {
		if match != nil && !taskMatches(t, match) {
			continue
		}
		visible = append(visible, t)
	}

	title := fmt.Sprintf("Tasks (%d)", len(visible))
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n")

	if len(visible) == 0 {
		b.WriteString(styles.Muted.Render("no tasks — press t to submit one"))
		return b.String()
	}

	// Most recent first
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}

	rows, more := window(len(visible), scroll, maxRows)
	for _, i := range rows {
		t := visible[i]
		badge := lipgloss.NewStyle().Foreground(styles.TaskStatusColor(string(t.Status))).Render(fmt.Sprintf("%-10s", t.Status))
		assignee := "-"
		if t.AssignedTo != nil {
			assignee = *t.AssignedTo
		}
		row := fmt.Sprintf("%s %-9s %-20s %s",
			badge, t.ID, util.TruncateString(t.Dimensions.String(), 20), styles.Muted.Render(assignee))
		if width > 0 {
			row = util.TruncateANSI(row, width)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	if more > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("▼ %d more", more)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func taskMatches(t compute.Task, match MatchFunc) bool {
	if match(t.ID) || match(string(t.Status)) {
		return true
	}
	return t.AssignedTo != nil && match(*t.AssignedTo)
}
