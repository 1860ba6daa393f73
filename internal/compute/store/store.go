package store

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/errors"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
)

// latencyWindow is how many recent completions feed the average latency.
const latencyWindow = 100

// Store holds the current server, client and task state.
// All methods are safe for concurrent use via an internal mutex.
type Store struct {
	mu sync.Mutex

	running   bool
	startTime *time.Time

	clients     map[string]*compute.Client
	clientOrder []string
	tasks       map[string]*compute.Task
	taskOrder   []string

	completed int
	failed    int
	latencies []float64 // most recent simulated execution times, ms

	bus    *event.Bus
	logger *logging.Logger
	now    func() time.Time
}

// New creates an empty Store publishing on the given bus.
func New(bus *event.Bus, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		clients: make(map[string]*compute.Client),
		tasks:   make(map[string]*compute.Task),
		bus:     bus,
		logger:  logger.WithComponent("store"),
		now:     time.Now,
	}
}

// generateID creates a short random hex ID.
func generateID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Start marks the server running and records the start time.
func (s *Store) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.ErrServerRunning
	}
	now := s.now()
	s.running = true
	s.startTime = &now
	s.logger.Info("server started")
	s.bus.Publish(event.NewServerStartedEvent(now))
	return nil
}

// Stop marks the server stopped. In-flight tasks are not aborted; the
// simulator keeps advancing them.
func (s *Store) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.ErrServerStopped
	}
	var uptime time.Duration
	if s.startTime != nil {
		uptime = s.now().Sub(*s.startTime)
	}
	s.running = false
	s.startTime = nil
	s.logger.Info("server stopped", "uptime", uptime.String())
	s.bus.Publish(event.NewServerStoppedEvent(uptime))
	return nil
}

// Running reports whether the server is currently running.
func (s *Store) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Connect registers a new worker client in the idle state and returns a
// copy of its record.
func (s *Store) Connect(name string, cores int) compute.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &compute.Client{
		ID:       generateID(),
		Name:     name,
		Status:   compute.ClientIdle,
		Cores:    cores,
		LastSeen: s.now(),
	}
	s.clients[c.ID] = c
	s.clientOrder = append(s.clientOrder, c.ID)

	s.logger.Info("client connected", "client_id", c.ID, "name", name, "cores", cores)
	s.bus.Publish(event.NewClientConnectedEvent(c.ID, name, cores))
	return *c
}

// Disconnect marks a client disconnected and returns its in-flight tasks
// to pending for reassignment. The reason is carried on the event,
// e.g. "disconnect" or "timeout".
func (s *Store) Disconnect(clientID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return errors.NewNotFoundError("client", clientID)
	}
	if c.Status == compute.ClientDisconnected {
		return nil
	}
	c.Status = compute.ClientDisconnected

	requeued := s.requeueClientTasks(clientID)

	s.logger.Warn("client disconnected", "client_id", clientID, "reason", reason, "requeued", len(requeued))
	s.bus.Publish(event.NewClientDisconnectedEvent(clientID, reason))
	for _, taskID := range requeued {
		s.bus.Publish(event.NewTaskRequeuedEvent(taskID, clientID))
	}
	if len(requeued) > 0 {
		s.publishDepth()
	}
	return nil
}

// requeueClientTasks returns the client's processing tasks to pending.
// Must be called with s.mu held. Returns the requeued task IDs.
func (s *Store) requeueClientTasks(clientID string) []string {
	var requeued []string
	for _, id := range s.taskOrder {
		t := s.tasks[id]
		if t.Status == compute.TaskProcessing && t.AssignedTo != nil && *t.AssignedTo == clientID {
			t.Status = compute.TaskPending
			t.AssignedTo = nil
			t.StartTime = nil
			requeued = append(requeued, t.ID)
		}
	}
	return requeued
}

// Heartbeat refreshes a client's last-seen time. A heartbeat from a
// disconnected client revives it to idle.
func (s *Store) Heartbeat(clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return errors.NewNotFoundError("client", clientID)
	}
	c.LastSeen = s.now()
	if c.Status == compute.ClientDisconnected {
		c.Status = compute.ClientIdle
		s.logger.Info("client reconnected", "client_id", clientID)
		s.bus.Publish(event.NewClientConnectedEvent(c.ID, c.Name, c.Cores))
	}
	return nil
}

// CreateTask validates the dimensions and, if valid, adds a pending dot
// product task to the store. Mismatched dimensions never produce a task.
func (s *Store) CreateTask(dims compute.Dimensions) (compute.Task, error) {
	if err := dims.Validate(); err != nil {
		return compute.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &compute.Task{
		ID:         generateID(),
		Type:       compute.TaskTypeDotProduct,
		Status:     compute.TaskPending,
		Dimensions: dims,
		Created:    s.now(),
	}
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)

	s.logger.Info("task created", "task_id", t.ID, "dimensions", dims.String())
	s.bus.Publish(event.NewTaskCreatedEvent(t.ID))
	s.publishDepth()
	return *t, nil
}

// Assign moves a pending task to processing on the given idle client.
func (s *Store) Assign(taskID, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignLocked(taskID, clientID)
}

// assignLocked performs the assignment. Must be called with s.mu held.
func (s *Store) assignLocked(taskID, clientID string) error {
	t, ok := s.tasks[taskID]
	if !ok {
		return errors.NewNotFoundError("task", taskID)
	}
	c, ok := s.clients[clientID]
	if !ok {
		return errors.NewNotFoundError("client", clientID)
	}
	if t.Status != compute.TaskPending {
		return errors.NewTransitionError("task", taskID, t.Status.String(), compute.TaskProcessing.String())
	}
	if c.Status != compute.ClientIdle {
		return errors.NewTransitionError("client", clientID, c.Status.String(), compute.ClientComputing.String())
	}

	now := s.now()
	t.Status = compute.TaskProcessing
	t.AssignedTo = &clientID
	t.StartTime = &now
	c.Status = compute.ClientComputing

	s.logger.Info("task assigned", "task_id", taskID, "client_id", clientID)
	s.bus.Publish(event.NewTaskAssignedEvent(taskID, clientID))
	s.publishDepth()
	return nil
}

// AssignNext assigns the oldest pending task to the first idle client,
// both in insertion order. Returns the pair, or ok=false when there is
// no pending task or no idle client.
func (s *Store) AssignNext() (taskID, clientID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tid := range s.taskOrder {
		if s.tasks[tid].Status != compute.TaskPending {
			continue
		}
		for _, cid := range s.clientOrder {
			if s.clients[cid].Status != compute.ClientIdle {
				continue
			}
			if err := s.assignLocked(tid, cid); err != nil {
				return "", "", false
			}
			return tid, cid, true
		}
		return "", "", false
	}
	return "", "", false
}

// Complete finishes a processing task. The result slice becomes the task's
// Result, the simulated execution time feeds the latency window, and the
// assigned client returns to idle with a fresh performance score.
func (s *Store) Complete(taskID string, result []float64, latencyMs, clientPerformance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return errors.NewNotFoundError("task", taskID)
	}
	if t.Status != compute.TaskProcessing {
		return errors.NewTransitionError("task", taskID, t.Status.String(), compute.TaskCompleted.String())
	}

	now := s.now()
	t.Status = compute.TaskCompleted
	t.Result = result
	t.EndTime = &now

	var clientID string
	if t.AssignedTo != nil {
		clientID = *t.AssignedTo
		if c, ok := s.clients[clientID]; ok {
			c.Status = compute.ClientIdle
			c.Performance = clientPerformance
			c.LastSeen = now
		}
	}

	s.completed++
	s.latencies = append(s.latencies, latencyMs)
	if len(s.latencies) > latencyWindow {
		s.latencies = s.latencies[len(s.latencies)-latencyWindow:]
	}

	s.logger.Info("task completed", "task_id", taskID, "client_id", clientID, "latency_ms", latencyMs)
	s.bus.Publish(event.NewTaskCompletedEvent(taskID, clientID, latencyMs))
	s.publishDepth()
	return nil
}

// Fail marks a processing task failed and returns its client to idle.
func (s *Store) Fail(taskID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return errors.NewNotFoundError("task", taskID)
	}
	if t.Status != compute.TaskProcessing {
		return errors.NewTransitionError("task", taskID, t.Status.String(), compute.TaskFailed.String())
	}

	now := s.now()
	t.Status = compute.TaskFailed
	t.EndTime = &now

	if t.AssignedTo != nil {
		if c, ok := s.clients[*t.AssignedTo]; ok {
			c.Status = compute.ClientIdle
			c.LastSeen = now
		}
	}

	s.failed++
	s.logger.Error("task failed", "task_id", taskID, "reason", reason)
	s.bus.Publish(event.NewTaskFailedEvent(taskID, reason))
	s.publishDepth()
	return nil
}

// StaleClients returns the IDs of connected clients whose last heartbeat
// is older than the cutoff. The sweeper disconnects them.
func (s *Store) StaleClients(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []string
	for _, id := range s.clientOrder {
		c := s.clients[id]
		if c.Status != compute.ClientDisconnected && c.LastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	return stale
}

// Snapshot returns a deep copy of the full server state in insertion order.
func (s *Store) Snapshot() compute.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := compute.ServerStatus{
		Running:             s.running,
		TotalCompletedTasks: s.completed,
		TotalFailedTasks:    s.failed,
		AverageLatency:      meanLocked(s.latencies),
		Clients:             make([]compute.Client, 0, len(s.clientOrder)),
		Tasks:               make([]compute.Task, 0, len(s.taskOrder)),
	}
	if s.startTime != nil {
		st := *s.startTime
		snap.StartTime = &st
	}
	for _, id := range s.clientOrder {
		snap.Clients = append(snap.Clients, *s.clients[id])
	}
	for _, id := range s.taskOrder {
		snap.Tasks = append(snap.Tasks, copyTask(s.tasks[id]))
	}
	return snap
}

// Latencies returns a copy of the recent latency window, oldest first.
// The performance chart renders this directly.
func (s *Store) Latencies() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, len(s.latencies))
	copy(out, s.latencies)
	return out
}

// GetTask returns a copy of the task with the given ID.
func (s *Store) GetTask(taskID string) (compute.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return compute.Task{}, errors.NewNotFoundError("task", taskID)
	}
	return copyTask(t), nil
}

// copyTask deep-copies a task, including pointer fields.
func copyTask(t *compute.Task) compute.Task {
	cp := *t
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		cp.AssignedTo = &v
	}
	if t.StartTime != nil {
		v := *t.StartTime
		cp.StartTime = &v
	}
	if t.EndTime != nil {
		v := *t.EndTime
		cp.EndTime = &v
	}
	if t.Result != nil {
		cp.Result = make([]float64, len(t.Result))
		copy(cp.Result, t.Result)
	}
	return cp
}

// publishDepth publishes a QueueDepthChangedEvent with current counts.
// Must be called while s.mu is held.
func (s *Store) publishDepth() {
	var pending, processing, completed, failed int
	for _, t := range s.tasks {
		switch t.Status {
		case compute.TaskPending:
			pending++
		case compute.TaskProcessing:
			processing++
		case compute.TaskCompleted:
			completed++
		case compute.TaskFailed:
			failed++
		}
	}
	s.bus.Publish(event.NewQueueDepthChangedEvent(pending, processing, completed, failed, len(s.tasks)))
}

// meanLocked averages the latency window. Returns 0 for an empty window.
func meanLocked(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
