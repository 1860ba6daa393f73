package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jsonharmony/harmony/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify harmony configuration",
	Long: `View or modify harmony configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  harmony config set sim.fleet_size 8
  harmony config set sim.failure_rate 0.1
  harmony config set tui.theme light

Valid keys:
  sim.fleet_size          - Number of simulated worker clients
  sim.assign_delay_ms     - Delay before a pending task is assigned
  sim.compute_min_ms      - Minimum simulated compute time
  sim.compute_max_ms      - Maximum simulated compute time
  sim.failure_rate        - Probability a task fails (0.0-1.0)
  sim.drop_rate           - Probability a client misses heartbeats (0.0-1.0)
  sim.heartbeat_ms        - Client heartbeat interval
  sim.client_timeout_ms   - Silence threshold before a client is dropped
  sim.initial_dimensions  - Default task dimensions (RxC,RxC)
  tui.theme               - Dashboard theme (dark, light)
  tui.refresh_interval_ms - Dashboard redraw cadence
  tui.chart_points        - Samples shown in the performance chart
  logging.level           - Log level (debug, info, warn, error)
  logging.dir             - Log directory ("" logs to stderr)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/harmony/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "sim:")
	fmt.Fprintf(out, "  fleet_size: %d\n", cfg.Sim.FleetSize)
	fmt.Fprintf(out, "  assign_delay_ms: %d\n", cfg.Sim.AssignDelayMs)
	fmt.Fprintf(out, "  compute_min_ms: %d\n", cfg.Sim.ComputeMinMs)
	fmt.Fprintf(out, "  compute_max_ms: %d\n", cfg.Sim.ComputeMaxMs)
	fmt.Fprintf(out, "  failure_rate: %v\n", cfg.Sim.FailureRate)
	fmt.Fprintf(out, "  drop_rate: %v\n", cfg.Sim.DropRate)
	fmt.Fprintf(out, "  min_performance: %v\n", cfg.Sim.MinPerformance)
	fmt.Fprintf(out, "  max_performance: %v\n", cfg.Sim.MaxPerformance)
	fmt.Fprintf(out, "  heartbeat_ms: %d\n", cfg.Sim.HeartbeatMs)
	fmt.Fprintf(out, "  client_timeout_ms: %d\n", cfg.Sim.ClientTimeoutMs)
	fmt.Fprintf(out, "  sweep_interval_ms: %d\n", cfg.Sim.SweepIntervalMs)
	fmt.Fprintf(out, "  initial_dimensions: %s\n", cfg.Sim.InitialDimensions)

	fmt.Fprintln(out, "tui:")
	fmt.Fprintf(out, "  theme: %s\n", cfg.TUI.Theme)
	fmt.Fprintf(out, "  refresh_interval_ms: %d\n", cfg.TUI.RefreshIntervalMs)
	fmt.Fprintf(out, "  chart_points: %d\n", cfg.TUI.ChartPoints)
	fmt.Fprintf(out, "  matrix_cells: %d\n", cfg.TUI.MatrixCells)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.Dir)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	validKeys := map[string]string{
		"sim.fleet_size":          "int",
		"sim.assign_delay_ms":     "int",
		"sim.compute_min_ms":      "int",
		"sim.compute_max_ms":      "int",
		"sim.failure_rate":        "float",
		"sim.drop_rate":           "float",
		"sim.min_performance":     "float",
		"sim.max_performance":     "float",
		"sim.heartbeat_ms":        "int",
		"sim.client_timeout_ms":   "int",
		"sim.sweep_interval_ms":   "int",
		"sim.seed":                "int",
		"sim.initial_dimensions":  "string",
		"tui.theme":               "string",
		"tui.refresh_interval_ms": "int",
		"tui.chart_points":        "int",
		"tui.matrix_cells":        "int",
		"logging.level":           "string",
		"logging.dir":             "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'harmony config set --help' to see valid keys", key)
	}

	var typedValue interface{}
	switch keyType {
	case "string":
		switch key {
		case "tui.theme":
			if !isOneOfStr(value, config.ValidThemes()) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidThemes(), ", "))
			}
		case "logging.level":
			if !isOneOfStr(value, config.ValidLogLevels()) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidLogLevels(), ", "))
			}
		}
		typedValue = value
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	case "float":
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected number", key)
		}
		typedValue = floatVal
	}

	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	// Reject writes that would leave the file invalid
	if _, err := config.Load(); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'harmony config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.Default()
	configContent := fmt.Sprintf(`# Harmony configuration

# Simulated cluster timings and behavior
sim:
  fleet_size: %d
  assign_delay_ms: %d
  compute_min_ms: %d
  compute_max_ms: %d
  # Probability a task fails instead of completing (0.0-1.0)
  failure_rate: %v
  # Probability a client goes silent and gets timed out (0.0-1.0)
  drop_rate: %v
  min_performance: %v
  max_performance: %v
  heartbeat_ms: %d
  client_timeout_ms: %d
  sweep_interval_ms: %d
  # RNG seed; 0 seeds from the clock
  seed: %d
  # Default matrix shapes for new tasks
  initial_dimensions: %s

# Dashboard rendering
tui:
  # dark or light
  theme: %s
  refresh_interval_ms: %d
  chart_points: %d
  matrix_cells: %d

# Log output
logging:
  # debug, info, warn, error
  level: %s
  # Log directory; empty logs to stderr
  dir: "%s"
`,
		defaults.Sim.FleetSize, defaults.Sim.AssignDelayMs, defaults.Sim.ComputeMinMs,
		defaults.Sim.ComputeMaxMs, defaults.Sim.FailureRate, defaults.Sim.DropRate,
		defaults.Sim.MinPerformance, defaults.Sim.MaxPerformance, defaults.Sim.HeartbeatMs,
		defaults.Sim.ClientTimeoutMs, defaults.Sim.SweepIntervalMs, defaults.Sim.Seed,
		defaults.Sim.InitialDimensions, defaults.TUI.Theme, defaults.TUI.RefreshIntervalMs,
		defaults.TUI.ChartPoints, defaults.TUI.MatrixCells, defaults.Logging.Level,
		defaults.Logging.Dir)

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), config.ConfigFile())
	return nil
}

func isOneOfStr(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
