// Package msg defines the Bubbletea messages exchanged between the
// dashboard model and the outside world (timers, the event bus, and the
// config watcher).
package msg

import (
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/event"
)

// TickMsg is sent periodically to drive UI refreshes and chart sampling.
type TickMsg time.Time

// EventMsg wraps a bus event forwarded into the Update loop.
type EventMsg struct {
	Event event.Event
}

// ErrMsg wraps an error to be surfaced in the status line.
type ErrMsg struct {
	Err error
}

// ConfigMsg delivers a hot-reloaded configuration.
type ConfigMsg struct {
	Config *config.Config
}

// TaskSubmittedMsg reports the outcome of an add-task submission.
type TaskSubmittedMsg struct {
	Task compute.Task
	Err  error
}
