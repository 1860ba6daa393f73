package view

import (
	"strings"

	"github.com/jsonharmony/harmony/internal/tui/keymap"
	"github.com/jsonharmony/harmony/internal/tui/styles"
)

// HelpBarView renders the one-line key hint bar at the bottom of the
// dashboard, and an expanded per-category listing when help is toggled.
type HelpBarView struct{}

// NewHelpBarView creates a new HelpBarView.
func NewHelpBarView() *HelpBarView {
	return &HelpBarView{}
}

// RenderBar produces the compact hint line for a mode.
func (v *HelpBarView) RenderBar(km *keymap.Keymap, mode keymap.Mode) string {
	bindings := km.BindingsFor(mode)
	if len(bindings) == 0 {
		return ""
	}

	var parts []string
	seen := make(map[keymap.Command]bool)
	for _, b := range bindings {
		// One hint per command; the first binding listed wins
		if seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		parts = append(parts, styles.HelpKey.Render(b.String())+" "+b.Description)
	}

	return styles.HelpBar.Render(strings.Join(parts, "  ·  "))
}

// RenderFull produces the expanded help listing grouped by category.
func (v *HelpBarView) RenderFull(km *keymap.Keymap, mode keymap.Mode) string {
	bindings := km.BindingsFor(mode)
	if len(bindings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Key Bindings"))
	b.WriteString("\n")

	var categories []string
	byCategory := make(map[string][]keymap.KeyBinding)
	for _, binding := range bindings {
		if _, ok := byCategory[binding.Category]; !ok {
			categories = append(categories, binding.Category)
		}
		byCategory[binding.Category] = append(byCategory[binding.Category], binding)
	}

	for _, cat := range categories {
		b.WriteString(styles.Secondary.Render(cat))
		b.WriteString("\n")
		for _, binding := range byCategory[cat] {
			b.WriteString("  ")
			b.WriteString(styles.HelpKey.Render(binding.String()))
			b.WriteString("  ")
			b.WriteString(binding.Description)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
