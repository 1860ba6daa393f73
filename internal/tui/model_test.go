package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/errors"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/sim"
	"github.com/jsonharmony/harmony/internal/tui/keymap"
	"github.com/jsonharmony/harmony/internal/tui/msg"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	st := store.New(event.NewBus(), nil)
	simCfg := sim.DefaultConfig()
	simCfg.Seed = 1
	simulator := sim.New(st, simCfg, nil)

	return NewModel(st, simulator, config.Default(), nil)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(message)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestToggleServerKey(t *testing.T) {
	m := newTestModel(t)

	if m.snapshot.Running {
		t.Fatal("server should start stopped")
	}

	m, _ = update(t, m, keyRune('s'))
	if !m.snapshot.Running {
		t.Error("s should start the server")
	}

	m, _ = update(t, m, keyRune('s'))
	if m.snapshot.Running {
		t.Error("s should stop a running server")
	}
}

func TestAddTaskModeRoundTrip(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyRune('a'))
	if m.mode != keymap.ModeAddTask {
		t.Fatalf("mode = %s, want add_task", m.mode)
	}

	// Typed characters go to the input, not the keymap
	m, _ = update(t, m, keyRune('5'))
	if m.input.Value() != "5" {
		t.Errorf("input value = %q, want 5", m.input.Value())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != keymap.ModeNormal {
		t.Errorf("esc should return to normal mode, got %s", m.mode)
	}
	if m.input.Value() != "" {
		t.Error("cancel should clear the input")
	}
}

func TestAddTaskConfirmSubmits(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyRune('a'))
	for _, r := range "4x4,4x2" {
		m, _ = update(t, m, keyRune(r))
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != keymap.ModeNormal {
		t.Fatalf("confirm should return to normal mode, got %s", m.mode)
	}
	if cmd == nil {
		t.Fatal("confirm should produce a submit command")
	}

	result, ok := cmd().(msg.TaskSubmittedMsg)
	if !ok {
		t.Fatalf("submit command returned %T", cmd())
	}
	if result.Err != nil {
		t.Fatalf("submit failed: %v", result.Err)
	}
	if result.Task.Status != compute.TaskPending {
		t.Errorf("submitted task status = %s, want pending", result.Task.Status)
	}
}

func TestSubmitRejectsMismatchedDims(t *testing.T) {
	m := newTestModel(t)

	result, ok := m.submitCmd("4x4,3x2")().(msg.TaskSubmittedMsg)
	if !ok {
		t.Fatal("submit command returned wrong message type")
	}
	if result.Err == nil {
		t.Fatal("mismatched dimensions should fail")
	}

	m, _ = update(t, m, result)
	if m.notice == "" {
		t.Error("failed submission should set a notice")
	}
	if strings.Contains(m.notice, "internal error") {
		t.Errorf("validation failure should be user-facing, got %q", m.notice)
	}
}

func TestFilterModeCompilesGlob(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyRune('/'))
	if m.mode != keymap.ModeFilter {
		t.Fatalf("mode = %s, want filter", m.mode)
	}

	for _, r := range "worker-*" {
		m, _ = update(t, m, keyRune(r))
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.filter == nil {
		t.Fatal("confirm should compile the filter")
	}
	match := m.matchFunc()
	if !match("worker-1") || match("other") {
		t.Error("compiled filter does not match expected names")
	}

	// Esc in normal mode clears it
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.filter != nil {
		t.Error("esc should clear the filter")
	}
}

func TestFilterModeRejectsBadPattern(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyRune('/'))
	for _, r := range "[bad" {
		m, _ = update(t, m, keyRune(r))
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.filter != nil {
		t.Error("bad pattern should not set a filter")
	}
	if !strings.Contains(m.notice, "bad filter pattern") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestTickRefreshesSnapshot(t *testing.T) {
	m := newTestModel(t)

	if err := m.store.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	m, cmd := update(t, m, msg.TickMsg(time.Now()))
	if !m.snapshot.Running {
		t.Error("tick should pick up the running server")
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestEventNotices(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, msg.EventMsg{Event: event.NewTaskFailedEvent("t1", "nope")})
	if !strings.Contains(m.notice, "t1") {
		t.Errorf("failure notice = %q", m.notice)
	}

	m, _ = update(t, m, msg.EventMsg{Event: event.NewClientDisconnectedEvent("c1", "timeout")})
	if !strings.Contains(m.notice, "timed out") {
		t.Errorf("timeout notice = %q", m.notice)
	}

	// Clean disconnects stay quiet
	m.notice = ""
	m, _ = update(t, m, msg.EventMsg{Event: event.NewClientDisconnectedEvent("c1", "disconnect")})
	if m.notice != "" {
		t.Errorf("clean disconnect should not notify, got %q", m.notice)
	}
}

func TestConfigReload(t *testing.T) {
	m := newTestModel(t)

	cfg := config.Default()
	cfg.TUI.Theme = "light"
	cfg.TUI.ChartPoints = 10
	m, _ = update(t, m, msg.ConfigMsg{Config: cfg})

	if m.cfg.TUI.ChartPoints != 10 {
		t.Error("config reload not applied")
	}
	if !strings.Contains(m.notice, "reloaded") {
		t.Errorf("reload notice = %q", m.notice)
	}
}

func TestPanelFocusAndScroll(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activePanel != panelTasks {
		t.Errorf("activePanel = %d, want tasks", m.activePanel)
	}

	m, _ = update(t, m, keyRune('j'))
	m, _ = update(t, m, keyRune('j'))
	if m.scroll[panelTasks] != 2 {
		t.Errorf("scroll = %d, want 2", m.scroll[panelTasks])
	}

	m, _ = update(t, m, keyRune('k'))
	m, _ = update(t, m, keyRune('k'))
	m, _ = update(t, m, keyRune('k'))
	if m.scroll[panelTasks] != 0 {
		t.Errorf("scroll should clamp at 0, got %d", m.scroll[panelTasks])
	}
}

func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	m.width, m.height = 120, 40

	out := m.View()
	for _, want := range []string{"HARMONY", "Server", "Clients", "Tasks", "Performance", "Matrix Activity"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppendSample(t *testing.T) {
	var s []float64
	for i := 0; i < 10; i++ {
		s = appendSample(s, float64(i), 4)
	}
	if len(s) != 4 {
		t.Fatalf("len = %d, want 4", len(s))
	}
	if s[3] != 9 {
		t.Errorf("newest sample = %v, want 9", s[3])
	}
}

func TestUserMessage(t *testing.T) {
	if got := userMessage(errors.NewValidationError("rows", "must be positive")); !strings.Contains(got, "rows") {
		t.Errorf("validation error should surface, got %q", got)
	}
	if got := userMessage(errors.New("disk exploded")); got != "internal error (see log)" {
		t.Errorf("internal error should be hidden, got %q", got)
	}
	if got := userMessage(nil); got != "" {
		t.Errorf("nil error message = %q", got)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q command returned %T, want tea.QuitMsg", cmd())
	}
}
