package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "sim.fleet_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidThemes returns the list of valid TUI themes
func ValidThemes() []string {
	return []string{"dark", "light"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSim()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSim validates the SimConfig
func (c *Config) validateSim() []ValidationError {
	var errors []ValidationError

	const maxFleetSize = 256
	if c.Sim.FleetSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "sim.fleet_size",
			Value:   c.Sim.FleetSize,
			Message: "must be at least 1",
		})
	}
	if c.Sim.FleetSize > maxFleetSize {
		errors = append(errors, ValidationError{
			Field:   "sim.fleet_size",
			Value:   c.Sim.FleetSize,
			Message: fmt.Sprintf("exceeds maximum of %d", maxFleetSize),
		})
	}

	if c.Sim.AssignDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "sim.assign_delay_ms",
			Value:   c.Sim.AssignDelayMs,
			Message: "must be non-negative",
		})
	}

	if c.Sim.ComputeMinMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "sim.compute_min_ms",
			Value:   c.Sim.ComputeMinMs,
			Message: "must be non-negative",
		})
	}
	if c.Sim.ComputeMaxMs < c.Sim.ComputeMinMs {
		errors = append(errors, ValidationError{
			Field:   "sim.compute_max_ms",
			Value:   c.Sim.ComputeMaxMs,
			Message: fmt.Sprintf("must be >= compute_min_ms (%d)", c.Sim.ComputeMinMs),
		})
	}

	for _, rate := range []struct {
		field string
		value float64
	}{
		{"sim.failure_rate", c.Sim.FailureRate},
		{"sim.drop_rate", c.Sim.DropRate},
	} {
		if rate.value < 0 || rate.value > 1 {
			errors = append(errors, ValidationError{
				Field:   rate.field,
				Value:   rate.value,
				Message: "must be between 0.0 and 1.0",
			})
		}
	}

	if c.Sim.MinPerformance <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sim.min_performance",
			Value:   c.Sim.MinPerformance,
			Message: "must be positive",
		})
	}
	if c.Sim.MaxPerformance < c.Sim.MinPerformance {
		errors = append(errors, ValidationError{
			Field:   "sim.max_performance",
			Value:   c.Sim.MaxPerformance,
			Message: fmt.Sprintf("must be >= min_performance (%v)", c.Sim.MinPerformance),
		})
	}

	const minHeartbeat = 10 // 10ms floor keeps the heartbeat loop from spinning
	if c.Sim.HeartbeatMs < minHeartbeat {
		errors = append(errors, ValidationError{
			Field:   "sim.heartbeat_ms",
			Value:   c.Sim.HeartbeatMs,
			Message: fmt.Sprintf("must be at least %dms", minHeartbeat),
		})
	}
	if c.Sim.ClientTimeoutMs <= c.Sim.HeartbeatMs {
		errors = append(errors, ValidationError{
			Field:   "sim.client_timeout_ms",
			Value:   c.Sim.ClientTimeoutMs,
			Message: fmt.Sprintf("must exceed heartbeat_ms (%d)", c.Sim.HeartbeatMs),
		})
	}
	if c.Sim.SweepIntervalMs < minHeartbeat {
		errors = append(errors, ValidationError{
			Field:   "sim.sweep_interval_ms",
			Value:   c.Sim.SweepIntervalMs,
			Message: fmt.Sprintf("must be at least %dms", minHeartbeat),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if !isOneOf(c.TUI.Theme, ValidThemes()) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	const minRefresh = 16 // ~60fps ceiling
	if c.TUI.RefreshIntervalMs < minRefresh {
		errors = append(errors, ValidationError{
			Field:   "tui.refresh_interval_ms",
			Value:   c.TUI.RefreshIntervalMs,
			Message: fmt.Sprintf("must be at least %dms", minRefresh),
		})
	}

	const maxChartPoints = 1000
	if c.TUI.ChartPoints < 2 {
		errors = append(errors, ValidationError{
			Field:   "tui.chart_points",
			Value:   c.TUI.ChartPoints,
			Message: "must be at least 2",
		})
	}
	if c.TUI.ChartPoints > maxChartPoints {
		errors = append(errors, ValidationError{
			Field:   "tui.chart_points",
			Value:   c.TUI.ChartPoints,
			Message: fmt.Sprintf("exceeds maximum of %d", maxChartPoints),
		})
	}

	if c.TUI.MatrixCells < 2 || c.TUI.MatrixCells > 32 {
		errors = append(errors, ValidationError{
			Field:   "tui.matrix_cells",
			Value:   c.TUI.MatrixCells,
			Message: "must be between 2 and 32",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !isOneOf(c.Logging.Level, ValidLogLevels()) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

func isOneOf(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
