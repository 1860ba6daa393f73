package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default dashboard key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name:        "default",
		Description: "Default harmony dashboard key bindings",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:  defaultNormalBindings(),
			ModeAddTask: defaultTextEntryBindings(ModeAddTask),
			ModeFilter:  defaultTextEntryBindings(ModeFilter),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			// Server control
			{KeyType: tea.KeyRunes, Rune: 's', Command: CmdToggleServer, Description: "Start/stop server", Category: "Server"},
			{KeyType: tea.KeyRunes, Rune: 't', Command: CmdSubmitTask, Description: "Submit task (default dims)", Category: "Server"},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdEnterAddTask, Description: "Add task with dimensions", Category: "Server"},

			// Filtering
			{KeyType: tea.KeyRunes, Rune: '/', Command: CmdEnterFilter, Description: "Filter clients/tasks", Category: "Filter"},
			{KeyType: tea.KeyEsc, Command: CmdClearFilter, Description: "Clear filter", Category: "Filter"},

			// Panel focus
			{KeyType: tea.KeyTab, Command: CmdNextPanel, Description: "Next panel", Category: "Navigation"},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevPanel, Description: "Previous panel", Category: "Navigation"},

			// Scrolling
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdScrollDown, Description: "Scroll down", Category: "Scrolling"},
			{KeyType: tea.KeyDown, Command: CmdScrollDown, Description: "Scroll down", Category: "Scrolling"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdScrollUp, Description: "Scroll up", Category: "Scrolling"},
			{KeyType: tea.KeyUp, Command: CmdScrollUp, Description: "Scroll up", Category: "Scrolling"},

			// View toggles
			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "Toggle help", Category: "View"},

			// Exit
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "Quit", Category: "Application"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "Quit", Category: "Application"},
		},
	}
}

// defaultTextEntryBindings covers the modes where a textinput owns most
// keys; only cancel and confirm are resolved through the keymap.
func defaultTextEntryBindings(mode Mode) *ModeBindings {
	return &ModeBindings{
		Mode: mode,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "Cancel", Category: "Control"},
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "Confirm", Category: "Control"},
		},
	}
}
