// Package event defines the event bus and event types that decouple the
// status store, the lifecycle simulator and the TUI. The store publishes
// an event for every mutation; the TUI subscribes and forwards events into
// its update loop, and tests subscribe to observe transitions directly.
package event
