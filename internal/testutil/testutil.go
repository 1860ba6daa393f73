// Package testutil provides testing utilities for Harmony tests.
package testutil

import (
	"testing"
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
)

// WaitFor polls cond every few milliseconds until it returns true or the
// timeout elapses, in which case the test fails with msg.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// SquareDims returns valid n×n · n×n dot product dimensions.
func SquareDims(n int) compute.Dimensions {
	return compute.Dimensions{
		A: compute.MatrixDims{Rows: n, Cols: n},
		B: compute.MatrixDims{Rows: n, Cols: n},
	}
}

// MismatchedDims returns dimensions whose inner sizes disagree, which the
// store must reject at creation.
func MismatchedDims() compute.Dimensions {
	return compute.Dimensions{
		A: compute.MatrixDims{Rows: 100, Cols: 50},
		B: compute.MatrixDims{Rows: 100, Cols: 100},
	}
}
