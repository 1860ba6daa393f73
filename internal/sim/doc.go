// Package sim implements the task lifecycle simulator and the simulated
// worker fleet. Tasks advance pending → processing → completed on timers:
// submission schedules a fixed-delay assignment pass, assignment schedules a
// randomized-delay finish. The fleet heartbeats on an interval and a
// sweeper disconnects clients whose heartbeat lapses, requeueing their
// in-flight work.
//
// There is no real computation and no cancellation: stopping the server
// does not abort scheduled transitions, matching the system being
// visualized.
package sim
