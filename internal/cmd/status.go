package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jsonharmony/harmony/internal/compute"
	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
	"github.com/jsonharmony/harmony/internal/sim"
	"github.com/jsonharmony/harmony/internal/util"
	"github.com/spf13/cobra"
)

var (
	statusDuration time.Duration
	statusTasks    int
	statusDims     string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run the cluster headless and print a status snapshot",
	Long: `Run the simulated cluster without the dashboard for a fixed duration,
then print a snapshot of clients, tasks, and aggregate statistics.
Useful for smoke-testing a configuration before launching the dashboard.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusDuration, "duration", 5*time.Second, "how long to run before snapshotting")
	statusCmd.Flags().IntVar(&statusTasks, "tasks", 8, "number of tasks to submit")
	statusCmd.Flags().StringVar(&statusDims, "dims", "", "task dimensions as RxC,RxC (default from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dimSpec := statusDims
	if dimSpec == "" {
		dimSpec = cfg.Sim.InitialDimensions
	}
	dims, err := compute.ParseDimensions(dimSpec)
	if err != nil {
		return fmt.Errorf("invalid dimensions %q: %w", dimSpec, err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	bus := event.NewBus()
	st := store.New(bus, logger)
	if err := st.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	simulator := sim.New(st, simConfigFrom(cfg), logger)
	simulator.Start(ctx)

	for i := 0; i < statusTasks; i++ {
		if _, err := simulator.SubmitTask(dims); err != nil {
			cancel()
			simulator.Wait()
			return err
		}
	}

	select {
	case <-time.After(statusDuration):
	case <-ctx.Done():
	}
	cancel()
	simulator.Wait()

	printSnapshot(cmd, st.Snapshot())
	return nil
}

func printSnapshot(cmd *cobra.Command, snap compute.ServerStatus) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Server: running=%v uptime=%s\n", snap.Running, util.FormatUptime(snap.Uptime(time.Now())))
	fmt.Fprintf(out, "Completed: %d  Failed: %d  Avg latency: %s\n",
		snap.TotalCompletedTasks, snap.TotalFailedTasks, util.FormatLatency(snap.AverageLatency))
	fmt.Fprintf(out, "\nClients (%d connected):\n", len(snap.ConnectedClients()))

	for _, c := range snap.Clients {
		fmt.Fprintf(out, "  %-12s %-14s cores=%-3d %s\n",
			c.Name, c.Status, c.Cores, util.FormatOpsPerSec(c.Performance))
	}

	fmt.Fprintf(out, "\nTasks (%d total, %d active):\n", len(snap.Tasks), len(snap.ActiveTasks()))
	for _, task := range snap.Tasks {
		assignee := "-"
		if task.AssignedTo != nil {
			assignee = *task.AssignedTo
		}
		fmt.Fprintf(out, "  %-10s %-12s %-22s worker=%s\n",
			task.ID, task.Status, task.Dimensions.String(), assignee)
	}
}
