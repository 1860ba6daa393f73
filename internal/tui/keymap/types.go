// Package keymap provides key binding definitions and lookup for the TUI.
// Key handling is declarative and mode-aware: each input mode carries its
// own binding table, and the Update loop resolves a key press to a named
// command before acting on it.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeNormal  Mode = "normal"   // Default viewing mode
	ModeAddTask Mode = "add_task" // Entering dimensions for a new task
	ModeFilter  Mode = "filter"   // Typing a glob pattern to filter rows
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	// Server control
	CmdToggleServer Command = "toggle_server"
	CmdSubmitTask   Command = "submit_task" // Submit with default dimensions

	// Mode entry
	CmdEnterAddTask Command = "enter_add_task"
	CmdEnterFilter  Command = "enter_filter"
	CmdClearFilter  Command = "clear_filter"

	// Panel focus
	CmdNextPanel Command = "next_panel"
	CmdPrevPanel Command = "prev_panel"

	// Scrolling within the focused panel
	CmdScrollDown Command = "scroll_down"
	CmdScrollUp   Command = "scroll_up"

	// View toggles
	CmdToggleHelp Command = "toggle_help"

	// Exit
	CmdQuit Command = "quit"
)

// Text entry mode commands (add-task and filter)
const (
	CmdCancel  Command = "cancel"
	CmdConfirm Command = "confirm"
)

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the primary key for this binding.
	// For rune keys, use tea.KeyRunes and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	if kb.KeyType != tea.KeyRunes {
		return kb.KeyType.String()
	}
	switch kb.Rune {
	case ' ':
		return "space"
	default:
		return string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name        string
	Description string
	Modes       map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// BindingsFor returns the bindings for a mode, or nil if the mode is unknown.
func (km *Keymap) BindingsFor(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}
