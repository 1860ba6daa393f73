package store

import (
	"testing"
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/errors"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
)

func newTestStore() *Store {
	return New(event.NewBus(), logging.Nop())
}

func validDims() compute.Dimensions {
	return compute.Dimensions{
		A: compute.MatrixDims{Rows: 100, Cols: 100},
		B: compute.MatrixDims{Rows: 100, Cols: 100},
	}
}

func TestStartStop(t *testing.T) {
	s := newTestStore()

	if s.Running() {
		t.Fatal("new store should not be running")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.Running() {
		t.Fatal("store should be running after Start")
	}
	if err := s.Start(); !errors.Is(err, errors.ErrServerRunning) {
		t.Errorf("second Start() error = %v, want ErrServerRunning", err)
	}

	snap := s.Snapshot()
	if snap.StartTime == nil {
		t.Error("running snapshot should carry a start time")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(); !errors.Is(err, errors.ErrServerStopped) {
		t.Errorf("second Stop() error = %v, want ErrServerStopped", err)
	}
	snap = s.Snapshot()
	if snap.Running || snap.StartTime != nil {
		t.Error("stopped snapshot should have no start time")
	}
}

func TestCreateTaskValidDimensions(t *testing.T) {
	s := newTestStore()

	task, err := s.CreateTask(validDims())
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if task.Status != compute.TaskPending {
		t.Errorf("new task status = %s, want pending", task.Status)
	}
	if task.Type != compute.TaskTypeDotProduct {
		t.Errorf("task type = %q, want dot_product", task.Type)
	}
	if task.AssignedTo != nil {
		t.Error("AssignedTo must be nil until processing")
	}
	if task.Result != nil {
		t.Error("Result must be nil until completed")
	}
	if task.StartTime != nil || task.EndTime != nil {
		t.Error("timestamps must be nil on a pending task")
	}
}

func TestCreateTaskMismatchedDimensionsNeverProducesTask(t *testing.T) {
	s := newTestStore()

	dims := compute.Dimensions{
		A: compute.MatrixDims{Rows: 100, Cols: 50},
		B: compute.MatrixDims{Rows: 100, Cols: 100},
	}
	_, err := s.CreateTask(dims)
	if err == nil {
		t.Fatal("CreateTask should reject mismatched inner dimensions")
	}

	var verr *errors.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %T", err)
	}

	snap := s.Snapshot()
	if len(snap.Tasks) != 0 {
		t.Errorf("store holds %d tasks after rejected creation, want 0", len(snap.Tasks))
	}
}

func TestAssignLifecycleInvariants(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)
	task, _ := s.CreateTask(validDims())

	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Status != compute.TaskProcessing {
		t.Errorf("task status = %s, want processing", got.Status)
	}
	if got.AssignedTo == nil || *got.AssignedTo != client.ID {
		t.Error("AssignedTo should be set once processing")
	}
	if got.StartTime == nil {
		t.Error("StartTime should be set once processing")
	}
	if got.Result != nil {
		t.Error("Result must remain nil until completion")
	}

	snap := s.Snapshot()
	if snap.Clients[0].Status != compute.ClientComputing {
		t.Errorf("client status = %s, want computing", snap.Clients[0].Status)
	}

	// A processing task cannot be assigned again.
	if err := s.Assign(task.ID, client.ID); !errors.Is(err, errors.ErrInvalidTransition) {
		t.Errorf("re-Assign error = %v, want ErrInvalidTransition", err)
	}
}

func TestAssignToBusyClientRejected(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 4)
	t1, _ := s.CreateTask(validDims())
	t2, _ := s.CreateTask(validDims())

	if err := s.Assign(t1.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := s.Assign(t2.ID, client.ID); !errors.Is(err, errors.ErrInvalidTransition) {
		t.Errorf("assigning to computing client error = %v, want ErrInvalidTransition", err)
	}
}

func TestAssignNextOrdering(t *testing.T) {
	s := newTestStore()

	if _, _, ok := s.AssignNext(); ok {
		t.Fatal("AssignNext on empty store should report no work")
	}

	c1 := s.Connect("worker-1", 4)
	t1, _ := s.CreateTask(validDims())
	t2, _ := s.CreateTask(validDims())

	taskID, clientID, ok := s.AssignNext()
	if !ok {
		t.Fatal("AssignNext should assign with idle client and pending task")
	}
	if taskID != t1.ID || clientID != c1.ID {
		t.Errorf("AssignNext = (%s, %s), want oldest task %s on %s", taskID, clientID, t1.ID, c1.ID)
	}

	// Only one client, now computing: second pending task must wait.
	if _, _, ok := s.AssignNext(); ok {
		t.Error("AssignNext should not assign when all clients are busy")
	}
	_ = t2
}

func TestCompleteUpdatesCountersAndClient(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)
	task, _ := s.CreateTask(validDims())
	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	result := []float64{3.14, 3.14, 3.14}
	if err := s.Complete(task.ID, result, 120.5, 2500); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != compute.TaskCompleted {
		t.Errorf("task status = %s, want completed", got.Status)
	}
	if len(got.Result) != 3 {
		t.Errorf("result length = %d, want 3", len(got.Result))
	}
	if got.EndTime == nil {
		t.Error("EndTime should be set on completion")
	}

	snap := s.Snapshot()
	if snap.TotalCompletedTasks != 1 {
		t.Errorf("completed counter = %d, want 1", snap.TotalCompletedTasks)
	}
	if snap.Clients[0].Status != compute.ClientIdle {
		t.Errorf("client status = %s, want idle after completion", snap.Clients[0].Status)
	}
	if snap.Clients[0].Performance != 2500 {
		t.Errorf("client performance = %v, want 2500", snap.Clients[0].Performance)
	}
	if snap.AverageLatency != 120.5 {
		t.Errorf("average latency = %v, want 120.5", snap.AverageLatency)
	}

	if len(snap.ActiveTasks()) != 0 {
		t.Error("completed task should leave the active set")
	}
}

func TestCompletePendingTaskRejected(t *testing.T) {
	s := newTestStore()
	task, _ := s.CreateTask(validDims())

	err := s.Complete(task.ID, nil, 0, 0)
	if !errors.Is(err, errors.ErrInvalidTransition) {
		t.Errorf("Complete on pending task error = %v, want ErrInvalidTransition", err)
	}
}

func TestFail(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)
	task, _ := s.CreateTask(validDims())
	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if err := s.Fail(task.ID, "simulated failure"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != compute.TaskFailed {
		t.Errorf("task status = %s, want failed", got.Status)
	}
	if got.Result != nil {
		t.Error("failed task must not carry a result")
	}

	snap := s.Snapshot()
	if snap.TotalFailedTasks != 1 {
		t.Errorf("failed counter = %d, want 1", snap.TotalFailedTasks)
	}
	if snap.Clients[0].Status != compute.ClientIdle {
		t.Errorf("client status = %s, want idle after failure", snap.Clients[0].Status)
	}
}

func TestDisconnectRequeuesProcessingTasks(t *testing.T) {
	bus := event.NewBus()
	s := New(bus, logging.Nop())

	var requeued []string
	bus.Subscribe(event.TypeTaskRequeued, func(e event.Event) {
		requeued = append(requeued, e.(event.TaskRequeuedEvent).TaskID)
	})

	client := s.Connect("worker-1", 8)
	task, _ := s.CreateTask(validDims())
	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if err := s.Disconnect(client.ID, "timeout"); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != compute.TaskPending {
		t.Errorf("task status = %s, want pending after client drop", got.Status)
	}
	if got.AssignedTo != nil || got.StartTime != nil {
		t.Error("requeued task should have assignment cleared")
	}

	snap := s.Snapshot()
	if snap.Clients[0].Status != compute.ClientDisconnected {
		t.Errorf("client status = %s, want disconnected", snap.Clients[0].Status)
	}
	if len(requeued) != 1 || requeued[0] != task.ID {
		t.Errorf("requeued events = %v, want [%s]", requeued, task.ID)
	}

	// Idempotent: disconnecting again is a no-op.
	if err := s.Disconnect(client.ID, "timeout"); err != nil {
		t.Errorf("second Disconnect() error = %v", err)
	}
}

func TestHeartbeatRevivesDisconnectedClient(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)

	if err := s.Disconnect(client.ID, "timeout"); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if err := s.Heartbeat(client.ID); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}

	snap := s.Snapshot()
	if snap.Clients[0].Status != compute.ClientIdle {
		t.Errorf("client status = %s, want idle after heartbeat", snap.Clients[0].Status)
	}

	if err := s.Heartbeat("nope"); !errors.Is(err, errors.ErrClientNotFound) {
		t.Errorf("Heartbeat(unknown) error = %v, want ErrClientNotFound", err)
	}
}

func TestStaleClients(t *testing.T) {
	s := newTestStore()
	c1 := s.Connect("worker-1", 4)
	c2 := s.Connect("worker-2", 4)

	// Age worker-1's heartbeat artificially.
	s.mu.Lock()
	s.clients[c1.ID].LastSeen = time.Now().Add(-1 * time.Minute)
	s.mu.Unlock()

	stale := s.StaleClients(time.Now().Add(-30 * time.Second))
	if len(stale) != 1 || stale[0] != c1.ID {
		t.Errorf("StaleClients() = %v, want [%s]", stale, c1.ID)
	}
	_ = c2
}

func TestStopDoesNotAbortInFlightTasks(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	task, _ := s.CreateTask(validDims())
	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	got, _ := s.GetTask(task.ID)
	if got.Status != compute.TaskProcessing {
		t.Errorf("task status after stop = %s, want processing", got.Status)
	}

	// The in-flight task can still complete after the server stops.
	if err := s.Complete(task.ID, []float64{1}, 10, 100); err != nil {
		t.Errorf("Complete after stop error = %v", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)
	task, _ := s.CreateTask(validDims())
	if err := s.Assign(task.ID, client.ID); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if err := s.Complete(task.ID, []float64{1, 2}, 10, 100); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	snap := s.Snapshot()
	snap.Tasks[0].Result[0] = 999
	*snap.Tasks[0].AssignedTo = "mutated"
	snap.Clients[0].Status = compute.ClientDisconnected

	fresh := s.Snapshot()
	if fresh.Tasks[0].Result[0] == 999 {
		t.Error("mutating a snapshot result leaked into the store")
	}
	if *fresh.Tasks[0].AssignedTo == "mutated" {
		t.Error("mutating a snapshot pointer leaked into the store")
	}
	if fresh.Clients[0].Status == compute.ClientDisconnected {
		t.Error("mutating a snapshot client leaked into the store")
	}
}

func TestLatencyWindowBounded(t *testing.T) {
	s := newTestStore()
	client := s.Connect("worker-1", 8)

	for i := 0; i < latencyWindow+20; i++ {
		task, _ := s.CreateTask(validDims())
		if err := s.Assign(task.ID, client.ID); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if err := s.Complete(task.ID, []float64{1}, float64(i), 100); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
	}

	lat := s.Latencies()
	if len(lat) != latencyWindow {
		t.Fatalf("latency window length = %d, want %d", len(lat), latencyWindow)
	}
	// Oldest retained sample is the 21st completion.
	if lat[0] != 20 {
		t.Errorf("oldest latency = %v, want 20", lat[0])
	}
}
