// Package view provides view components for the dashboard. Each component
// renders one panel from a state snapshot and returns a string; none of
// them talk to the store directly, which keeps them trivially testable.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/tui/styles"
	"github.com/jsonharmony/harmony/internal/util"
)

// ControlsView renders the server panel: run state, uptime, and the
// aggregate task statistics.
type ControlsView struct{}

// NewControlsView creates a new ControlsView.
func NewControlsView() *ControlsView {
	return &ControlsView{}
}

// Render produces the server panel content.
func (v *ControlsView) Render(snap compute.ServerStatus, now time.Time) string {
	var b strings.Builder

	b.WriteString(styles.PanelTitle.Render("Server"))
	b.WriteString("\n")

	if snap.Running {
		badge := lipgloss.NewStyle().Bold(true).Foreground(styles.StatusComputing).Render("● running")
		b.WriteString(badge)
		b.WriteString(styles.Muted.Render("  up " + util.FormatUptime(snap.Uptime(now))))
	} else {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.StatusDisconnected).Render("○ stopped"))
	}
	b.WriteString("\n\n")

	pending, processing := 0, 0
	for _, t := range snap.Tasks {
		switch t.Status {
		case compute.TaskPending:
			pending++
		case compute.TaskProcessing:
			processing++
		}
	}

	b.WriteString(fmt.Sprintf("Clients:    %d connected\n", len(snap.ConnectedClients())))
	b.WriteString(fmt.Sprintf("Queue:      %d pending / %d processing\n", pending, processing))
	b.WriteString(fmt.Sprintf("Completed:  %d\n", snap.TotalCompletedTasks))

	failed := fmt.Sprintf("Failed:     %d", snap.TotalFailedTasks)
	if snap.TotalFailedTasks > 0 {
		failed = styles.Error.Render(failed)
	}
	b.WriteString(failed)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Latency:    %s avg", util.FormatLatency(snap.AverageLatency)))

	return b.String()
}
