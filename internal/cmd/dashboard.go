package cmd

import (
	"context"
	"fmt"

	"github.com/jsonharmony/harmony/internal/compute/store"
	"github.com/jsonharmony/harmony/internal/config"
	"github.com/jsonharmony/harmony/internal/event"
	"github.com/jsonharmony/harmony/internal/logging"
	"github.com/jsonharmony/harmony/internal/sim"
	"github.com/jsonharmony/harmony/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the cluster dashboard",
	Long:  `Launch the terminal dashboard. This is also the default when harmony is run with no subcommand.`,
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(dashboardLogDir(cfg), cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Close()

	bus := event.NewBus()
	st := store.New(bus, logger)
	simulator := sim.New(st, simConfigFrom(cfg), logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer simulator.Wait()
	defer cancel()

	app := tui.New(st, simulator, bus, cfg, logger)

	// Hot-reload display settings while the dashboard is running
	if watcher, werr := config.NewWatcher(viper.ConfigFileUsed()); werr == nil {
		watcher.SetChangeCallback(app.SendConfig)
		watcher.SetErrorCallback(func(err error) {
			logger.WithComponent("config").Warn("config reload failed", "error", err)
		})
		if serr := watcher.Start(); serr == nil {
			defer watcher.Stop()
		}
	}

	simulator.Start(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// simConfigFrom maps the file/env configuration onto simulator timings.
// dashboardLogDir picks where dashboard logs go. An unset log dir falls
// back to the config directory: stderr is not usable while the altscreen
// owns the terminal, and JSON log lines would scribble over the dashboard.
func dashboardLogDir(cfg *config.Config) string {
	if cfg.Logging.Dir != "" {
		return cfg.Logging.Dir
	}
	return config.ConfigDir()
}

func simConfigFrom(cfg *config.Config) sim.Config {
	return sim.Config{
		FleetSize:         cfg.Sim.FleetSize,
		AssignDelay:       cfg.Sim.AssignDelay(),
		MinComputeDelay:   cfg.Sim.ComputeMin(),
		MaxComputeDelay:   cfg.Sim.ComputeMax(),
		FailureRate:       cfg.Sim.FailureRate,
		DropRate:          cfg.Sim.DropRate,
		MinPerformance:    cfg.Sim.MinPerformance,
		MaxPerformance:    cfg.Sim.MaxPerformance,
		HeartbeatInterval: cfg.Sim.Heartbeat(),
		ClientTimeout:     cfg.Sim.ClientTimeout(),
		SweepInterval:     cfg.Sim.SweepInterval(),
		Seed:              cfg.Sim.Seed,
	}
}
