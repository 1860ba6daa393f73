package view

import (
	"fmt"
	"strings"

	"github.com/jsonharmony/harmony/internal/tui/styles"
	"github.com/jsonharmony/harmony/internal/util"
)

// sparkRunes maps a normalized sample to a block glyph, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// ChartView renders rolling sample histories as one-line sparklines.
type ChartView struct{}

// NewChartView creates a new ChartView.
func NewChartView() *ChartView {
	return &ChartView{}
}

// Render produces the performance panel: a throughput sparkline over the
// fleet's mean ops/sec and a latency sparkline over the rolling average.
func (v *ChartView) Render(throughput, latency []float64, width int) string {
	var b strings.Builder

	b.WriteString(styles.PanelTitle.Render("Performance"))
	b.WriteString("\n")

	b.WriteString(styles.Muted.Render("ops/s   "))
	b.WriteString(styles.Secondary.Render(Sparkline(throughput, width-18)))
	if n := latest(throughput); n > 0 {
		b.WriteString(" " + util.FormatOpsPerSec(n))
	}
	b.WriteString("\n")

	b.WriteString(styles.Muted.Render("latency "))
	b.WriteString(styles.Warning.Render(Sparkline(latency, width-18)))
	if n := latest(latency); n > 0 {
		b.WriteString(" " + util.FormatLatency(n))
	}

	if len(latency) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render("window  " + SampleStats(latency)))
	}

	return b.String()
}

// Sparkline renders samples as block glyphs scaled to the sample range.
// The most recent samples win when there are more samples than columns.
func Sparkline(samples []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(samples) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	lo, hi := samples[0], samples[0]
	for _, s := range samples {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	var b strings.Builder
	for _, s := range samples {
		idx := 0
		if hi > lo {
			idx = int((s - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	// Left-pad so the line ends at the newest sample
	if pad := width - len(samples); pad > 0 {
		return strings.Repeat(" ", pad) + b.String()
	}
	return b.String()
}

func latest(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1]
}

// SampleStats summarizes a sample window for display.
func SampleStats(samples []float64) string {
	if len(samples) == 0 {
		return "no samples"
	}
	lo, hi, sum := samples[0], samples[0], 0.0
	for _, s := range samples {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
		sum += s
	}
	return fmt.Sprintf("min %.0f / avg %.0f / max %.0f", lo, sum/float64(len(samples)), hi)
}
