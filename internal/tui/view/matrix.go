package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jsonharmony/harmony/internal/tui/styles"
)

// MatrixView renders the multiplication activity grid: a cells×cells
// field whose lit fraction tracks how much of the fleet is computing,
// shimmering as the tick counter advances.
type MatrixView struct{}

// NewMatrixView creates a new MatrixView.
func NewMatrixView() *MatrixView {
	return &MatrixView{}
}

// Render produces the activity grid. busy/total is the computing share
// of the fleet; tick drives the shimmer.
func (v *MatrixView) Render(busy, total, cells, tick int) string {
	var b strings.Builder

	b.WriteString(styles.PanelTitle.Render("Matrix Activity"))
	b.WriteString("\n")

	if cells < 2 {
		cells = 2
	}

	lit := lipgloss.NewStyle().Foreground(styles.StatusComputing)
	dim := lipgloss.NewStyle().Foreground(styles.MutedColor)

	for row := 0; row < cells; row++ {
		for col := 0; col < cells; col++ {
			if cellLit(row, col, cells, busy, total, tick) {
				b.WriteString(lit.Render("■ "))
			} else {
				b.WriteString(dim.Render("· "))
			}
		}
		b.WriteString("\n")
	}

	if total > 0 {
		b.WriteString(styles.Muted.Render(
			strings.TrimSpace(progressLabel(busy, total))))
	}

	return strings.TrimRight(b.String(), "\n")
}

// cellLit decides whether a cell shows activity this tick. The hash keeps
// the pattern stable within a tick but scattered across the grid, and the
// lit fraction follows busy/total.
func cellLit(row, col, cells, busy, total, tick int) bool {
	if busy <= 0 || total <= 0 {
		return false
	}
	h := uint32(row*31+col*17+tick*13) * 2654435761
	threshold := uint32(float64(^uint32(0)) * float64(busy) / float64(total))
	return h <= threshold
}

func progressLabel(busy, total int) string {
	switch {
	case busy == 0:
		return "fleet idle"
	case busy == total:
		return "fleet saturated"
	default:
		return "computing"
	}
}
