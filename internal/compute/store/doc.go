// Package store implements the status store: the single mutable record of
// the simulated server, its worker clients and its tasks. All mutations go
// through Store methods, which enforce the task and client state machines
// and publish a typed event for every change. Reads return deep-copied
// snapshots so renderers never observe partial updates.
package store
