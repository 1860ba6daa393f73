// Package config provides configuration management for harmony.
// Configuration is loaded from ~/.config/harmony/config.yaml with
// environment variable overrides (HARMONY_ prefix).
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure
type Config struct {
	Sim     SimConfig     `mapstructure:"sim"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SimConfig controls the simulated compute cluster
type SimConfig struct {
	FleetSize         int     `mapstructure:"fleet_size"`          // Number of simulated worker clients
	AssignDelayMs     int     `mapstructure:"assign_delay_ms"`     // Delay before a pending task is assigned
	ComputeMinMs      int     `mapstructure:"compute_min_ms"`      // Minimum simulated compute time
	ComputeMaxMs      int     `mapstructure:"compute_max_ms"`      // Maximum simulated compute time
	FailureRate       float64 `mapstructure:"failure_rate"`        // Probability a task fails (0.0-1.0)
	DropRate          float64 `mapstructure:"drop_rate"`           // Probability a client misses heartbeats (0.0-1.0)
	MinPerformance    float64 `mapstructure:"min_performance"`     // Lower bound for reported ops/sec
	MaxPerformance    float64 `mapstructure:"max_performance"`     // Upper bound for reported ops/sec
	HeartbeatMs       int     `mapstructure:"heartbeat_ms"`        // Interval between client heartbeats
	ClientTimeoutMs   int     `mapstructure:"client_timeout_ms"`   // Silence threshold before a client is dropped
	SweepIntervalMs   int     `mapstructure:"sweep_interval_ms"`   // How often stale clients are swept
	Seed              int64   `mapstructure:"seed"`                // RNG seed; 0 seeds from the clock
	InitialDimensions string  `mapstructure:"initial_dimensions"`  // Default matrix dimensions for new tasks (RxC,RxC)
}

// AssignDelay returns the assignment delay as a time.Duration
func (c *SimConfig) AssignDelay() time.Duration {
	return time.Duration(c.AssignDelayMs) * time.Millisecond
}

// ComputeMin returns the minimum compute delay as a time.Duration
func (c *SimConfig) ComputeMin() time.Duration {
	return time.Duration(c.ComputeMinMs) * time.Millisecond
}

// ComputeMax returns the maximum compute delay as a time.Duration
func (c *SimConfig) ComputeMax() time.Duration {
	return time.Duration(c.ComputeMaxMs) * time.Millisecond
}

// Heartbeat returns the heartbeat interval as a time.Duration
func (c *SimConfig) Heartbeat() time.Duration {
	return time.Duration(c.HeartbeatMs) * time.Millisecond
}

// ClientTimeout returns the client silence threshold as a time.Duration
func (c *SimConfig) ClientTimeout() time.Duration {
	return time.Duration(c.ClientTimeoutMs) * time.Millisecond
}

// SweepInterval returns the stale-client sweep cadence as a time.Duration
func (c *SimConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// TUIConfig controls the dashboard rendering
type TUIConfig struct {
	Theme             string `mapstructure:"theme"`               // "dark" or "light"
	RefreshIntervalMs int    `mapstructure:"refresh_interval_ms"` // Dashboard redraw cadence
	ChartPoints       int    `mapstructure:"chart_points"`        // Samples shown in the performance chart
	MatrixCells       int    `mapstructure:"matrix_cells"`        // Grid size of the matrix activity panel
}

// RefreshInterval returns the redraw cadence as a time.Duration
func (c *TUIConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	Dir   string `mapstructure:"dir"`   // Log directory; empty logs to stderr
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Sim: SimConfig{
			FleetSize:         4,
			AssignDelayMs:     500,
			ComputeMinMs:      1000,
			ComputeMaxMs:      4000,
			FailureRate:       0,
			DropRate:          0.05,
			MinPerformance:    500,
			MaxPerformance:    5000,
			HeartbeatMs:       2000,
			ClientTimeoutMs:   8000,
			SweepIntervalMs:   2000,
			Seed:              0,
			InitialDimensions: "100x100,100x50",
		},
		TUI: TUIConfig{
			Theme:             "dark",
			RefreshIntervalMs: 100,
			ChartPoints:       60,
			MatrixCells:       8,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// SetDefaults registers all default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("sim.fleet_size", defaults.Sim.FleetSize)
	viper.SetDefault("sim.assign_delay_ms", defaults.Sim.AssignDelayMs)
	viper.SetDefault("sim.compute_min_ms", defaults.Sim.ComputeMinMs)
	viper.SetDefault("sim.compute_max_ms", defaults.Sim.ComputeMaxMs)
	viper.SetDefault("sim.failure_rate", defaults.Sim.FailureRate)
	viper.SetDefault("sim.drop_rate", defaults.Sim.DropRate)
	viper.SetDefault("sim.min_performance", defaults.Sim.MinPerformance)
	viper.SetDefault("sim.max_performance", defaults.Sim.MaxPerformance)
	viper.SetDefault("sim.heartbeat_ms", defaults.Sim.HeartbeatMs)
	viper.SetDefault("sim.client_timeout_ms", defaults.Sim.ClientTimeoutMs)
	viper.SetDefault("sim.sweep_interval_ms", defaults.Sim.SweepIntervalMs)
	viper.SetDefault("sim.seed", defaults.Sim.Seed)
	viper.SetDefault("sim.initial_dimensions", defaults.Sim.InitialDimensions)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.refresh_interval_ms", defaults.TUI.RefreshIntervalMs)
	viper.SetDefault("tui.chart_points", defaults.TUI.ChartPoints)
	viper.SetDefault("tui.matrix_cells", defaults.TUI.MatrixCells)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "harmony")
	}
	// Fall back to ~/.config/harmony
	home, err := os.UserHomeDir()
	if err != nil {
		return ".harmony"
	}
	return filepath.Join(home, ".config", "harmony")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
