// Package compute defines the domain model for the simulated distributed
// matrix-multiplication system: worker clients, dot product tasks, matrix
// dimensions, and the server status snapshot that the dashboard renders.
//
// The package is pure data plus validation; state transitions live in
// compute/store and timing lives in sim.
package compute
