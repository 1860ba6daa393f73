package sim

import "fmt"

// clientName labels fleet members in connection order: worker-1, worker-2…
func clientName(i int) string {
	return fmt.Sprintf("worker-%d", i+1)
}
