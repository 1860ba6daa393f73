// Package tui implements the terminal dashboard over the simulated
// compute cluster.
package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
	"github.com/jsonharmony/harmony/internal/sim"
	"github.com/jsonharmony/harmony/internal/tui/msg"
)

// App wraps the Bubbletea program.
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
}

// New creates a new dashboard application.
func New(st *store.Store, simulator *sim.Simulator, bus *event.Bus, cfg *config.Config, logger *logging.Logger) *App {
	return &App{
		model: NewModel(st, simulator, cfg, logger),
		bus:   bus,
	}
}

// SendConfig delivers a hot-reloaded configuration to the running program.
// Safe to call before Run; the message is simply dropped.
func (a *App) SendConfig(cfg *config.Config) {
	if a.program != nil {
		a.program.Send(msg.ConfigMsg{Config: cfg})
	}
}

// Run starts the dashboard and blocks until it exits.
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Forward bus events into the Update loop
	subID := a.bus.SubscribeAll(func(e event.Event) {
		if a.program != nil {
			a.program.Send(msg.EventMsg{Event: e})
		}
	})
	defer a.bus.Unsubscribe(subID)

	// Graceful shutdown on signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()
	return err
}
