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

// MatchFunc filters rows by name; nil means no filter.
type MatchFunc func(name string) bool

// ClientsView renders the worker client table.
type ClientsView struct{}

// NewClientsView creates a new ClientsView.
func NewClientsView() *ClientsView {
	return &ClientsView{}
}

// Render produces the client table. Rows whose name fails match are
// hidden; scroll and maxRows window the remainder. Rows wider than width
// are truncated without breaking the styling escape sequences; width <= 0
// disables truncation.
func (v *ClientsView) Render(clients []compute.Client, match MatchFunc, now time.Time, scroll, maxRows, width int) string {
	var b strings.Builder

	visible := make([]compute.Client, 0, len(clients))
	for _, c := range clients {
		if match != nil && !match(c.Name) {
			continue
		}
		visible = append(visible, c)
	}

	title := fmt.Sprintf("Clients (%d)", len(visible))
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n")

	if len(visible) == 0 {
		b.WriteString(styles.Muted.Render("no clients"))
		return b.String()
	}

	rows, more := window(len(visible), scroll, maxRows)
	for _, i := range rows {
		c := visible[i]
		badge := lipgloss.NewStyle().Foreground(styles.ClientStatusColor(string(c.Status))).Render(statusDot(c.Status))
		name := util.TruncateString(c.Name, 14)
		seen := styles.Muted.Render(lastSeen(c.LastSeen, now))
		row := fmt.Sprintf("%s %-14s %-9s %2d cores  %-11s %s",
			badge, name, c.Status, c.Cores, util.FormatOpsPerSec(c.Performance), seen)
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

func statusDot(s compute.ClientStatus) string {
	switch s {
	case compute.ClientComputing:
		return "●"
	case compute.ClientDisconnected:
		return "✗"
	default:
		return "○"
	}
}

func lastSeen(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}
	return d.Round(time.Second).String() + " ago"
}

// window returns the visible index range after scrolling, plus how many
// rows fall below the window.
func window(total, scroll, maxRows int) (indices []int, more int) {
	if maxRows <= 0 {
		maxRows = total
	}
	if scroll < 0 {
		scroll = 0
	}
	if scroll > total-1 {
		scroll = max(total-1, 0)
	}
	end := scroll + maxRows
	if end > total {
		end = total
	}
	for i := scroll; i < end; i++ {
		indices = append(indices, i)
	}
	return indices, total - end
}
