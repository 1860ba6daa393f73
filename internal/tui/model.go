package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gobwas/glob"
	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/errors"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
	"github.com/jsonharmony/harmony/internal/sim"
	"github.com/jsonharmony/harmony/internal/tui/keymap"
	"github.com/jsonharmony/harmony/internal/tui/msg"
	"github.com/jsonharmony/harmony/internal/tui/styles"
	"github.com/jsonharmony/harmony/internal/tui/view"
)

// Panels that can take focus for scrolling, in tab order.
const (
	panelClients = iota
	panelTasks
	panelCount
)

// noticeTTL is how long a status-line notice stays visible.
const noticeTTL = 4 * time.Second

// Model is the Bubbletea model for the dashboard.
type Model struct {
	store     *store.Store
	simulator *sim.Simulator
	cfg       *config.Config
	logger    *logging.Logger

	keymap *keymap.Keymap
	mode   keymap.Mode

	input         textinput.Model
	filter        glob.Glob
	filterPattern string

	snapshot   compute.ServerStatus
	throughput []float64
	latency    []float64
	tick       int

	notice      string
	noticeUntil time.Time

	width, height int
	activePanel   int
	scroll        [panelCount]int
	showHelp      bool

	controls *view.ControlsView
	clients  *view.ClientsView
	tasks    *view.TasksView
	chart    *view.ChartView
	matrix   *view.MatrixView
	helpbar  *view.HelpBarView

	now func() time.Time
}

// NewModel creates the dashboard model.
func NewModel(st *store.Store, simulator *sim.Simulator, cfg *config.Config, logger *logging.Logger) Model {
	if logger == nil {
		logger = logging.Nop()
	}

	input := textinput.New()
	input.CharLimit = 64
	input.Width = 32

	styles.SetTheme(cfg.TUI.Theme)

	return Model{
		store:     st,
		simulator: simulator,
		cfg:       cfg,
		logger:    logger.WithComponent("tui"),
		keymap:    keymap.DefaultKeymap(),
		mode:      keymap.ModeNormal,
		input:     input,
		snapshot:  st.Snapshot(),
		controls:  view.NewControlsView(),
		clients:   view.NewClientsView(),
		tasks:     view.NewTasksView(),
		chart:     view.NewChartView(),
		matrix:    view.NewMatrixView(),
		helpbar:   view.NewHelpBarView(),
		now:       time.Now,
	}
}

// Init schedules the first refresh tick.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TUI.RefreshInterval(), func(t time.Time) tea.Msg {
		return msg.TickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch v := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		return m, nil

	case msg.TickMsg:
		m.refresh(time.Time(v))
		return m, m.tickCmd()

	case msg.EventMsg:
		m.handleEvent(v.Event)
		return m, nil

	case msg.ErrMsg:
		m.setNotice(userMessage(v.Err))
		return m, nil

	case msg.ConfigMsg:
		m.applyConfig(v.Config)
		return m, nil

	case msg.TaskSubmittedMsg:
		if v.Err != nil {
			m.setNotice(userMessage(v.Err))
		} else {
			m.setNotice(fmt.Sprintf("task %s queued (%s)", v.Task.ID, v.Task.Dimensions.String()))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(v)
	}

	return m, nil
}

// refresh pulls a fresh snapshot and extends the chart histories.
func (m *Model) refresh(now time.Time) {
	m.snapshot = m.store.Snapshot()
	m.tick++

	// Sample roughly once a second regardless of refresh cadence
	ticksPerSample := int(time.Second / m.cfg.TUI.RefreshInterval())
	if ticksPerSample < 1 {
		ticksPerSample = 1
	}
	if m.tick%ticksPerSample != 0 {
		return
	}

	m.throughput = appendSample(m.throughput, fleetThroughput(m.snapshot), m.cfg.TUI.ChartPoints)
	if m.snapshot.AverageLatency > 0 {
		m.latency = appendSample(m.latency, m.snapshot.AverageLatency, m.cfg.TUI.ChartPoints)
	}
}

func (m *Model) handleEvent(e event.Event) {
	switch ev := e.(type) {
	case event.TaskFailedEvent:
		m.setNotice(fmt.Sprintf("task %s failed: %s", ev.TaskID, ev.Reason))
	case event.ClientDisconnectedEvent:
		if ev.Reason == "timeout" {
			m.setNotice(fmt.Sprintf("client %s timed out", ev.ClientID))
		}
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.TUI.Theme != m.cfg.TUI.Theme {
		styles.SetTheme(cfg.TUI.Theme)
	}
	m.cfg = cfg
	m.setNotice("configuration reloaded")
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, bound := m.keymap.GetBinding(key, m.mode)

	// In text entry modes, unbound keys belong to the input field
	if !bound {
		if m.mode != keymap.ModeNormal {
			var c tea.Cmd
			m.input, c = m.input.Update(key)
			return m, c
		}
		return m, nil
	}

	switch cmd {
	case keymap.CmdQuit:
		return m, tea.Quit

	case keymap.CmdToggleServer:
		m.toggleServer()
		return m, nil

	case keymap.CmdSubmitTask:
		return m, m.submitCmd(m.cfg.Sim.InitialDimensions)

	case keymap.CmdEnterAddTask:
		m.mode = keymap.ModeAddTask
		m.input.Placeholder = m.cfg.Sim.InitialDimensions
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case keymap.CmdEnterFilter:
		m.mode = keymap.ModeFilter
		m.input.Placeholder = "worker-*"
		m.input.SetValue(m.filterPattern)
		m.input.Focus()
		return m, textinput.Blink

	case keymap.CmdClearFilter:
		m.filter = nil
		m.filterPattern = ""
		return m, nil

	case keymap.CmdNextPanel:
		m.activePanel = (m.activePanel + 1) % panelCount
		return m, nil

	case keymap.CmdPrevPanel:
		m.activePanel = (m.activePanel + panelCount - 1) % panelCount
		return m, nil

	case keymap.CmdScrollDown:
		m.scroll[m.activePanel]++
		return m, nil

	case keymap.CmdScrollUp:
		if m.scroll[m.activePanel] > 0 {
			m.scroll[m.activePanel]--
		}
		return m, nil

	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
		return m, nil

	case keymap.CmdCancel:
		m.exitTextEntry()
		return m, nil

	case keymap.CmdConfirm:
		return m.confirmTextEntry()
	}

	return m, nil
}

func (m *Model) toggleServer() {
	var err error
	if m.snapshot.Running {
		err = m.store.Stop()
	} else {
		err = m.store.Start()
	}
	if err != nil {
		m.setNotice(userMessage(err))
	}
	m.snapshot = m.store.Snapshot()
}

// submitCmd submits a task off the Update loop and reports the outcome.
func (m Model) submitCmd(dimSpec string) tea.Cmd {
	simulator := m.simulator
	return func() tea.Msg {
		dims, err := compute.ParseDimensions(dimSpec)
		if err != nil {
			return msg.TaskSubmittedMsg{Err: err}
		}
		task, err := simulator.SubmitTask(dims)
		return msg.TaskSubmittedMsg{Task: task, Err: err}
	}
}

func (m *Model) exitTextEntry() {
	m.mode = keymap.ModeNormal
	m.input.Blur()
	m.input.SetValue("")
}

func (m Model) confirmTextEntry() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.mode
	m.exitTextEntry()

	switch mode {
	case keymap.ModeAddTask:
		if value == "" {
			value = m.cfg.Sim.InitialDimensions
		}
		return m, m.submitCmd(value)

	case keymap.ModeFilter:
		if value == "" {
			m.filter = nil
			m.filterPattern = ""
			return m, nil
		}
		g, err := glob.Compile(value)
		if err != nil {
			m.setNotice(fmt.Sprintf("bad filter pattern %q", value))
			return m, nil
		}
		m.filter = g
		m.filterPattern = value
		return m, nil
	}

	return m, nil
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeUntil = m.now().Add(noticeTTL)
}

// matchFunc adapts the compiled glob for the views.
func (m Model) matchFunc() view.MatchFunc {
	if m.filter == nil {
		return nil
	}
	g := m.filter
	return func(name string) bool { return g.Match(name) }
}

// fleetThroughput is the summed ops/sec of connected clients.
func fleetThroughput(snap compute.ServerStatus) float64 {
	var total float64
	for _, c := range snap.ConnectedClients() {
		total += c.Performance
	}
	return total
}

func appendSample(samples []float64, v float64, limit int) []float64 {
	samples = append(samples, v)
	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples
}

// userMessage maps an error to status-line text, hiding internal detail
// unless the error is meant for the user.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "internal error (see log)"
}

// View renders the full dashboard.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}

	header := styles.Header.Width(width).Render("HARMONY — distributed matrix computation")

	now := m.now()
	tableRows := m.tableRows()

	controls := m.panelStyle(false).Render(m.controls.Render(m.snapshot, now))
	chart := m.panelStyle(false).Render(m.chart.Render(m.throughput, m.latency, chartWidth(width)))
	matrix := m.panelStyle(false).Render(m.matrix.Render(
		busyClients(m.snapshot), m.cfg.Sim.FleetSize, m.cfg.TUI.MatrixCells, m.tick))

	clients := m.panelStyle(m.activePanel == panelClients).Render(
		m.clients.Render(m.snapshot.Clients, m.matchFunc(), now, m.scroll[panelClients], tableRows, tableWidth(width)))
	tasks := m.panelStyle(m.activePanel == panelTasks).Render(
		m.tasks.Render(m.snapshot.Tasks, m.matchFunc(), m.scroll[panelTasks], tableRows, tableWidth(width)))

	top := lipgloss.JoinHorizontal(lipgloss.Top, controls, chart, matrix)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, clients, tasks)

	sections := []string{header, top, middle}

	if m.mode == keymap.ModeAddTask {
		sections = append(sections, styles.Text.Render("dimensions (RxC,RxC): ")+m.input.View())
	} else if m.mode == keymap.ModeFilter {
		sections = append(sections, styles.Text.Render("filter: ")+m.input.View())
	}

	if m.notice != "" && m.now().Before(m.noticeUntil) {
		sections = append(sections, styles.Notice.Render(m.notice))
	}

	if m.showHelp {
		sections = append(sections, m.helpbar.RenderFull(m.keymap, m.mode))
	} else {
		sections = append(sections, m.helpbar.RenderBar(m.keymap, m.mode))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) panelStyle(active bool) lipgloss.Style {
	if active {
		return styles.PanelActive
	}
	return styles.Panel
}

// tableRows is how many rows the client and task tables may use.
func (m Model) tableRows() int {
	if m.height <= 0 {
		return 8
	}
	// Header, top panel row, borders, input/notice/help lines
	rows := m.height - m.cfg.TUI.MatrixCells - 12
	if rows < 3 {
		rows = 3
	}
	return rows
}

// tableWidth is how many columns each client/task row may occupy. The two
// tables sit side by side, so each gets half the terminal minus borders.
func tableWidth(total int) int {
	w := total/2 - 6
	if w < 30 {
		w = 30
	}
	return w
}

func chartWidth(total int) int {
	w := total/3 - 4
	if w < 24 {
		w = 24
	}
	return w
}

func busyClients(snap compute.ServerStatus) int {
	n := 0
	for _, c := range snap.Clients {
		if c.Status == compute.ClientComputing {
			n++
		}
	}
	return n
}
