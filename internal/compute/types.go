package compute

import "time"

// TaskType identifies the kind of computation a task represents.
// Dot product is the only operation the simulated system models.
const TaskTypeDotProduct = "dot_product"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskPending indicates the task is waiting for an idle client.
	TaskPending TaskStatus = "pending"

	// TaskProcessing indicates the task is assigned and being computed.
	TaskProcessing TaskStatus = "processing"

	// TaskCompleted indicates the task finished and carries a result.
	TaskCompleted TaskStatus = "completed"

	// TaskFailed indicates the task failed on its client.
	TaskFailed TaskStatus = "failed"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// IsActive returns true for statuses that keep a task in the active set.
func (s TaskStatus) IsActive() bool {
	return s == TaskPending || s == TaskProcessing
}

// ClientStatus represents the current state of a worker client.
type ClientStatus string

const (
	// ClientIdle indicates the client is connected and available for work.
	ClientIdle ClientStatus = "idle"

	// ClientComputing indicates the client is working on a task.
	ClientComputing ClientStatus = "computing"

	// ClientDisconnected indicates the client dropped or timed out.
	ClientDisconnected ClientStatus = "disconnected"
)

// String returns the string representation of the client status.
func (s ClientStatus) String() string {
	return string(s)
}

// MatrixDims is the shape of a single matrix operand.
type MatrixDims struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Dimensions holds the operand shapes for a dot product task.
type Dimensions struct {
	A MatrixDims `json:"matrixA"`
	B MatrixDims `json:"matrixB"`
}

// ResultRows returns the number of rows in the product A×B.
// The simulated result is the first column of the product, so this is
// also the length of the result slice.
func (d Dimensions) ResultRows() int {
	return d.A.Rows
}

// Client is a worker node in the simulated compute fleet.
type Client struct {
	// ID is the unique identifier for this client.
	ID string `json:"id"`

	// Name is a human-readable label, e.g. "worker-3".
	Name string `json:"name"`

	// Status is the current client state.
	Status ClientStatus `json:"status"`

	// Cores is the simulated core count.
	Cores int `json:"cores"`

	// Performance is the simulated throughput in operations per second.
	Performance float64 `json:"performance"`

	// LastSeen is the time of the most recent heartbeat.
	LastSeen time.Time `json:"lastSeen"`
}

// Task is one simulated unit of work.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`

	// Type is always TaskTypeDotProduct.
	Type string `json:"type"`

	// Status is the current execution state.
	Status TaskStatus `json:"status"`

	// AssignedTo is the client working on this task.
	// Nil until the task transitions to processing.
	AssignedTo *string `json:"assignedTo"`

	// Result holds the first column of the simulated product.
	// Nil until the task completes.
	Result []float64 `json:"result"`

	// StartTime is when processing began. Nil while pending.
	StartTime *time.Time `json:"startTime"`

	// EndTime is when the task reached a terminal state. Nil until then.
	EndTime *time.Time `json:"endTime"`

	// Dimensions are the operand shapes for this task.
	Dimensions Dimensions `json:"dimensions"`

	// Created is when the task was accepted into the store.
	Created time.Time `json:"created"`
}

// ServerStatus is an immutable snapshot of the whole simulated system,
// suitable for rendering. Clients and Tasks preserve insertion order.
type ServerStatus struct {
	Running             bool       `json:"running"`
	StartTime           *time.Time `json:"startTime"`
	TotalCompletedTasks int        `json:"totalCompletedTasks"`
	TotalFailedTasks    int        `json:"totalFailedTasks"`

	// AverageLatency is the mean simulated execution time in milliseconds
	// over the most recent completions.
	AverageLatency float64 `json:"averageLatency"`

	Clients []Client `json:"clients"`
	Tasks   []Task   `json:"tasks"`
}

// ActiveTasks returns the tasks that are pending or processing.
func (s ServerStatus) ActiveTasks() []Task {
	var active []Task
	for _, t := range s.Tasks {
		if t.Status.IsActive() {
			active = append(active, t)
		}
	}
	return active
}

// ConnectedClients returns the clients that are not disconnected.
func (s ServerStatus) ConnectedClients() []Client {
	var connected []Client
	for _, c := range s.Clients {
		if c.Status != ClientDisconnected {
			connected = append(connected, c)
		}
	}
	return connected
}

// IdleClients returns the clients available for assignment.
func (s ServerStatus) IdleClients() []Client {
	var idle []Client
	for _, c := range s.Clients {
		if c.Status == ClientIdle {
			idle = append(idle, c)
		}
	}
	return idle
}

// Uptime returns how long the server has been running, or zero if stopped.
func (s ServerStatus) Uptime(now time.Time) time.Duration {
	if !s.Running || s.StartTime == nil {
		return 0
	}
	return now.Sub(*s.StartTime)
}
