package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/logging"
)

// Config holds simulator timing and fleet parameters.
type Config struct {
	// FleetSize is how many simulated worker clients to connect.
	FleetSize int

	// AssignDelay is the fixed delay between task submission and the
	// assignment pass that moves it to processing.
	AssignDelay time.Duration

	// MinComputeDelay and MaxComputeDelay bound the randomized simulated
	// execution time of a processing task.
	MinComputeDelay time.Duration
	MaxComputeDelay time.Duration

	// FailureRate is the probability in [0,1] that a processing task
	// fails instead of completing. Zero keeps every task on the happy path.
	FailureRate float64

	// MinPerformance and MaxPerformance bound the random ops/sec score a
	// client receives when it returns to idle.
	MinPerformance float64
	MaxPerformance float64

	// HeartbeatInterval is how often fleet clients refresh their
	// last-seen time.
	HeartbeatInterval time.Duration

	// ClientTimeout is how stale a heartbeat may be before the sweeper
	// marks the client disconnected.
	ClientTimeout time.Duration

	// SweepInterval is how often the sweeper looks for stale clients.
	SweepInterval time.Duration

	// DropRate is the probability in [0,1], checked at each heartbeat
	// tick, that a client goes silent long enough to be timed out. The
	// client resumes heartbeating afterwards and is revived.
	DropRate float64

	// Seed seeds the simulator's random source. Zero uses the clock.
	Seed int64
}

// DefaultConfig returns the timing profile used by the dashboard:
// transitions visible on a human timescale.
func DefaultConfig() Config {
	return Config{
		FleetSize:         4,
		AssignDelay:       500 * time.Millisecond,
		MinComputeDelay:   1 * time.Second,
		MaxComputeDelay:   4 * time.Second,
		FailureRate:       0,
		MinPerformance:    500,
		MaxPerformance:    5000,
		HeartbeatInterval: 2 * time.Second,
		ClientTimeout:     8 * time.Second,
		SweepInterval:     2 * time.Second,
		DropRate:          0,
	}
}

// Simulator drives the simulated task lifecycle and worker fleet against
// a status store.
type Simulator struct {
	store  *store.Store
	cfg    Config
	logger *logging.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu          sync.Mutex
	fleet       []compute.Client
	silentUntil map[string]time.Time // clients currently skipping heartbeats

	wg sync.WaitGroup
}

// New creates a Simulator over the given store.
func New(st *store.Store, cfg Config, logger *logging.Logger) *Simulator {
	if logger == nil {
		logger = logging.Nop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		store:       st,
		cfg:         cfg,
		logger:      logger.WithComponent("sim"),
		rng:         rand.New(rand.NewSource(seed)),
		silentUntil: make(map[string]time.Time),
	}
}

// Start connects the fleet and launches the heartbeat and sweep loops.
// The loops stop when ctx is cancelled; already-scheduled task transitions
// still fire, since the simulated system has no cancellation.
func (s *Simulator) Start(ctx context.Context) {
	s.connectFleet()

	s.wg.Add(2)
	go s.heartbeatLoop(ctx)
	go s.sweepLoop(ctx)
}

// Wait blocks until the heartbeat and sweep loops have exited.
func (s *Simulator) Wait() {
	s.wg.Wait()
}

// Fleet returns the clients the simulator connected.
func (s *Simulator) Fleet() []compute.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]compute.Client, len(s.fleet))
	copy(out, s.fleet)
	return out
}

// SubmitTask creates a dot product task and schedules the fixed-delay
// assignment pass. Invalid dimensions are rejected before anything is
// scheduled.
func (s *Simulator) SubmitTask(dims compute.Dimensions) (compute.Task, error) {
	task, err := s.store.CreateTask(dims)
	if err != nil {
		return compute.Task{}, err
	}
	time.AfterFunc(s.cfg.AssignDelay, s.assignPending)
	return task, nil
}

// assignPending assigns as many pending tasks to idle clients as possible,
// scheduling a randomized-delay finish for each assignment.
func (s *Simulator) assignPending() {
	for {
		taskID, clientID, ok := s.store.AssignNext()
		if !ok {
			return
		}
		delay := s.computeDelay()
		s.logger.Debug("scheduled completion", "task_id", taskID, "client_id", clientID, "delay", delay.String())
		tid, cid := taskID, clientID
		time.AfterFunc(delay, func() { s.finish(tid, cid, delay) })
	}
}

// finish resolves one processing task: a failure roll decides between the
// failed and completed transitions, and completion fills the result with a
// single repeated pseudo-random value sized to the product's rows. Either
// way the freed client may pick up queued work, so another assignment pass
// runs afterwards.
//
// A finish only counts if the task is still held by the client it was
// scheduled for; a task requeued and reassigned in the meantime belongs to
// a newer timer.
func (s *Simulator) finish(taskID, clientID string, elapsed time.Duration) {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		s.logger.Warn("finish for unknown task", "task_id", taskID)
		return
	}
	if task.AssignedTo == nil || *task.AssignedTo != clientID {
		s.logger.Debug("stale finish dropped", "task_id", taskID, "client_id", clientID)
		return
	}

	if s.roll() < s.cfg.FailureRate {
		if err := s.store.Fail(taskID, "simulated computation error"); err != nil {
			s.logger.Debug("finish skipped", "task_id", taskID, "err", err.Error())
			return
		}
		s.assignPending()
		return
	}

	value := s.roll() * 100
	result := make([]float64, task.Dimensions.ResultRows())
	for i := range result {
		result[i] = value
	}

	latencyMs := float64(elapsed) / float64(time.Millisecond)
	perf := s.cfg.MinPerformance + s.roll()*(s.cfg.MaxPerformance-s.cfg.MinPerformance)

	if err := s.store.Complete(taskID, result, latencyMs, perf); err != nil {
		s.logger.Debug("finish skipped", "task_id", taskID, "err", err.Error())
		return
	}
	s.assignPending()
}

// connectFleet registers FleetSize simulated workers with randomized
// core counts.
func (s *Simulator) connectFleet() {
	coreOptions := []int{2, 4, 8, 16}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.cfg.FleetSize; i++ {
		name := clientName(i)
		cores := coreOptions[s.intn(len(coreOptions))]
		c := s.store.Connect(name, cores)
		s.fleet = append(s.fleet, c)
	}
}

// heartbeatLoop refreshes each fleet client's last-seen time on an
// interval. A drop roll can silence a client long enough for the sweeper
// to time it out; the client resumes afterwards and is revived.
func (s *Simulator) heartbeatLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.heartbeatFleet(now)
		}
	}
}

// heartbeatFleet sends one round of heartbeats.
func (s *Simulator) heartbeatFleet(now time.Time) {
	s.mu.Lock()
	fleet := make([]compute.Client, len(s.fleet))
	copy(fleet, s.fleet)
	s.mu.Unlock()

	for _, c := range fleet {
		s.mu.Lock()
		until, silent := s.silentUntil[c.ID]
		if silent && now.After(until) {
			delete(s.silentUntil, c.ID)
			silent = false
		}
		if !silent && s.cfg.DropRate > 0 && s.roll() < s.cfg.DropRate {
			s.silentUntil[c.ID] = now.Add(2 * s.cfg.ClientTimeout)
			silent = true
			s.logger.Info("client went silent", "client_id", c.ID)
		}
		s.mu.Unlock()

		if silent {
			continue
		}
		if err := s.store.Heartbeat(c.ID); err != nil {
			s.logger.Warn("heartbeat failed", "client_id", c.ID, "err", err.Error())
		}
	}
}

// sweepLoop disconnects clients whose heartbeat is older than the timeout.
func (s *Simulator) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-s.cfg.ClientTimeout)
			for _, id := range s.store.StaleClients(cutoff) {
				s.logger.Warn("client timed out", "client_id", id)
				if err := s.store.Disconnect(id, "timeout"); err != nil {
					s.logger.Warn("disconnect failed", "client_id", id, "err", err.Error())
				}
			}
			// Requeued tasks from timed-out clients can go straight to
			// another idle client.
			s.assignPending()
		}
	}
}

// roll returns a random float64 in [0,1).
func (s *Simulator) roll() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

// intn returns a random int in [0,n).
func (s *Simulator) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// computeDelay returns a randomized simulated execution time.
func (s *Simulator) computeDelay() time.Duration {
	min := s.cfg.MinComputeDelay
	max := s.cfg.MaxComputeDelay
	if max <= min {
		return min
	}
	return min + time.Duration(s.roll()*float64(max-min))
}
