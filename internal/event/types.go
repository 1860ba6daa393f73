package event

import "time"

// Type identifies a kind of event. Subscriptions match on it.
type Type string

// Event type identifiers, in "category.action" form.
const (
	TypeServerStarted      Type = "server.started"
	TypeServerStopped      Type = "server.stopped"
	TypeClientConnected    Type = "client.connected"
	TypeClientDisconnected Type = "client.disconnected"
	TypeTaskCreated        Type = "task.created"
	TypeTaskAssigned       Type = "task.assigned"
	TypeTaskCompleted      Type = "task.completed"
	TypeTaskFailed         Type = "task.failed"
	TypeTaskRequeued       Type = "task.requeued"
	TypeQueueDepthChanged  Type = "queue.depth_changed"

	// TypeWildcard matches every event type.
	TypeWildcard Type = "*"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns the identifier for this event type.
	EventType() Type

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType Type
	timestamp time.Time
}

func (e baseEvent) EventType() Type      { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType Type) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Server events
// -----------------------------------------------------------------------------

// ServerStartedEvent is emitted when the simulated server starts.
type ServerStartedEvent struct {
	baseEvent
	StartTime time.Time
}

// NewServerStartedEvent creates a ServerStartedEvent.
func NewServerStartedEvent(startTime time.Time) ServerStartedEvent {
	return ServerStartedEvent{
		baseEvent: newBaseEvent(TypeServerStarted),
		StartTime: startTime,
	}
}

// ServerStoppedEvent is emitted when the simulated server stops.
// In-flight tasks are not aborted by a stop.
type ServerStoppedEvent struct {
	baseEvent
	Uptime time.Duration
}

// NewServerStoppedEvent creates a ServerStoppedEvent.
func NewServerStoppedEvent(uptime time.Duration) ServerStoppedEvent {
	return ServerStoppedEvent{
		baseEvent: newBaseEvent(TypeServerStopped),
		Uptime:    uptime,
	}
}

// -----------------------------------------------------------------------------
// Client events
// -----------------------------------------------------------------------------

// ClientConnectedEvent is emitted when a worker client registers.
type ClientConnectedEvent struct {
	baseEvent
	ClientID string
	Name     string
	Cores    int
}

// NewClientConnectedEvent creates a ClientConnectedEvent.
func NewClientConnectedEvent(clientID, name string, cores int) ClientConnectedEvent {
	return ClientConnectedEvent{
		baseEvent: newBaseEvent(TypeClientConnected),
		ClientID:  clientID,
		Name:      name,
		Cores:     cores,
	}
}

// ClientDisconnectedEvent is emitted when a worker client drops, either
// explicitly or because its heartbeat lapsed.
type ClientDisconnectedEvent struct {
	baseEvent
	ClientID string
	Reason   string // "disconnect", "timeout"
}

// NewClientDisconnectedEvent creates a ClientDisconnectedEvent.
func NewClientDisconnectedEvent(clientID, reason string) ClientDisconnectedEvent {
	return ClientDisconnectedEvent{
		baseEvent: newBaseEvent(TypeClientDisconnected),
		ClientID:  clientID,
		Reason:    reason,
	}
}

// -----------------------------------------------------------------------------
// Task events
// -----------------------------------------------------------------------------

// TaskCreatedEvent is emitted when a task is accepted into the store.
type TaskCreatedEvent struct {
	baseEvent
	TaskID string
}

// NewTaskCreatedEvent creates a TaskCreatedEvent.
func NewTaskCreatedEvent(taskID string) TaskCreatedEvent {
	return TaskCreatedEvent{
		baseEvent: newBaseEvent(TypeTaskCreated),
		TaskID:    taskID,
	}
}

// TaskAssignedEvent is emitted when a pending task is assigned to a client.
type TaskAssignedEvent struct {
	baseEvent
	TaskID   string
	ClientID string
}

// NewTaskAssignedEvent creates a TaskAssignedEvent.
func NewTaskAssignedEvent(taskID, clientID string) TaskAssignedEvent {
	return TaskAssignedEvent{
		baseEvent: newBaseEvent(TypeTaskAssigned),
		TaskID:    taskID,
		ClientID:  clientID,
	}
}

// TaskCompletedEvent is emitted when a processing task completes.
type TaskCompletedEvent struct {
	baseEvent
	TaskID    string
	ClientID  string
	LatencyMs float64
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(taskID, clientID string, latencyMs float64) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent: newBaseEvent(TypeTaskCompleted),
		TaskID:    taskID,
		ClientID:  clientID,
		LatencyMs: latencyMs,
	}
}

// TaskFailedEvent is emitted when a processing task fails.
type TaskFailedEvent struct {
	baseEvent
	TaskID string
	Reason string
}

// NewTaskFailedEvent creates a TaskFailedEvent.
func NewTaskFailedEvent(taskID, reason string) TaskFailedEvent {
	return TaskFailedEvent{
		baseEvent: newBaseEvent(TypeTaskFailed),
		TaskID:    taskID,
		Reason:    reason,
	}
}

// TaskRequeuedEvent is emitted when a processing task returns to pending,
// typically because its client disconnected mid-flight.
type TaskRequeuedEvent struct {
	baseEvent
	TaskID   string
	ClientID string // the client that previously held the task
}

// NewTaskRequeuedEvent creates a TaskRequeuedEvent.
func NewTaskRequeuedEvent(taskID, clientID string) TaskRequeuedEvent {
	return TaskRequeuedEvent{
		baseEvent: newBaseEvent(TypeTaskRequeued),
		TaskID:    taskID,
		ClientID:  clientID,
	}
}

// QueueDepthChangedEvent is emitted after any mutation that changes task
// status counts. The TUI uses it to refresh without polling every field.
type QueueDepthChangedEvent struct {
	baseEvent
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Total      int
}

// NewQueueDepthChangedEvent creates a QueueDepthChangedEvent.
func NewQueueDepthChangedEvent(pending, processing, completed, failed, total int) QueueDepthChangedEvent {
	return QueueDepthChangedEvent{
		baseEvent:  newBaseEvent(TypeQueueDepthChanged),
		Pending:    pending,
		Processing: processing,
		Completed:  completed,
		Failed:     failed,
		Total:      total,
	}
}

// Compile-time checks that all event types satisfy the Event interface.
var (
	_ Event = ServerStartedEvent{}
	_ Event = ServerStoppedEvent{}
	_ Event = ClientConnectedEvent{}
	_ Event = ClientDisconnectedEvent{}
	_ Event = TaskCreatedEvent{}
	_ Event = TaskAssignedEvent{}
	_ Event = TaskCompletedEvent{}
	_ Event = TaskFailedEvent{}
	_ Event = TaskRequeuedEvent{}
	_ Event = QueueDepthChangedEvent{}
)
