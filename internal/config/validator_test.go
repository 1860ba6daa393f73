package config

import (
	"strings"
	"testing"
)

func TestValidateSim(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero fleet size",
			mutate:    func(c *Config) { c.Sim.FleetSize = 0 },
			wantField: "sim.fleet_size",
		},
		{
			name:      "huge fleet size",
			mutate:    func(c *Config) { c.Sim.FleetSize = 10000 },
			wantField: "sim.fleet_size",
		},
		{
			name:      "negative assign delay",
			mutate:    func(c *Config) { c.Sim.AssignDelayMs = -1 },
			wantField: "sim.assign_delay_ms",
		},
		{
			name:      "compute max below min",
			mutate:    func(c *Config) { c.Sim.ComputeMaxMs = c.Sim.ComputeMinMs - 1 },
			wantField: "sim.compute_max_ms",
		},
		{
			name:      "failure rate above one",
			mutate:    func(c *Config) { c.Sim.FailureRate = 1.5 },
			wantField: "sim.failure_rate",
		},
		{
			name:      "negative drop rate",
			mutate:    func(c *Config) { c.Sim.DropRate = -0.1 },
			wantField: "sim.drop_rate",
		},
		{
			name:      "max performance below min",
			mutate:    func(c *Config) { c.Sim.MaxPerformance = c.Sim.MinPerformance - 1 },
			wantField: "sim.max_performance",
		},
		{
			name:      "timeout not above heartbeat",
			mutate:    func(c *Config) { c.Sim.ClientTimeoutMs = c.Sim.HeartbeatMs },
			wantField: "sim.client_timeout_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("expected validation errors, got none")
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got: %v", tt.wantField, ValidationErrors(errs))
			}
		})
	}
}

func TestValidateTUIAndLogging(t *testing.T) {
	cfg := Default()
	cfg.TUI.Theme = "sepia"
	cfg.TUI.RefreshIntervalMs = 1
	cfg.TUI.ChartPoints = 1
	cfg.Logging.Level = "verbose"

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Fatalf("expected 4 validation errors, got %d: %v", len(errs), ValidationErrors(errs))
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "sim.fleet_size", Value: 0, Message: "must be at least 1"},
	}
	if got := errs.Error(); !strings.Contains(got, "sim.fleet_size") {
		t.Errorf("single error message missing field: %q", got)
	}

	errs = append(errs, ValidationError{Field: "tui.theme", Value: "neon", Message: "invalid"})
	got := errs.Error()
	if !strings.Contains(got, "2 validation errors") {
		t.Errorf("multi-error message missing count: %q", got)
	}
	if !strings.Contains(got, "tui.theme") {
		t.Errorf("multi-error message missing second field: %q", got)
	}
}

func TestValidationErrorsEmpty(t *testing.T) {
	var errs ValidationErrors
	if got := errs.Error(); got != "" {
		t.Errorf("empty ValidationErrors.Error() = %q, want empty", got)
	}
}
