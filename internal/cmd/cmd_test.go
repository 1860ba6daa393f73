package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jsonharmony/harmony/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}
	if rootCmd.Use != "harmony" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "harmony")
	}

	// Check for expected subcommands (compare by Name(), not Use which includes args)
	expectedCmds := []string{"dashboard", "status", "config"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range expectedCmds {
		if !cmdMap[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestConfigShow(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()

	out, err := executeCommand(rootCmd, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}

	for _, want := range []string{"sim:", "fleet_size:", "tui:", "theme:", "logging:"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()

	if _, err := executeCommand(rootCmd, "config", "set", "nonsense.key", "1"); err == nil {
		t.Error("unknown key should be rejected")
	}
}

func TestConfigSetRejectsInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-integer fleet size", key: "sim.fleet_size", value: "four"},
		{name: "non-numeric rate", key: "sim.failure_rate", value: "often"},
		{name: "unknown theme", key: "tui.theme", value: "neon"},
		{name: "unknown log level", key: "logging.level", value: "verbose"},
		{name: "out-of-range rate", key: "sim.failure_rate", value: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(rootCmd, "config", "set", tt.key, tt.value); err == nil {
				t.Errorf("set %s=%s should be rejected", tt.key, tt.value)
			}
		})
	}
}

func TestConfigSetWritesFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Point ConfigDir at a temp location
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	initConfig()

	out, err := executeCommand(rootCmd, "config", "set", "sim.fleet_size", "8")
	if err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if !strings.Contains(out, "sim.fleet_size = 8") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	out, err := executeCommand(rootCmd, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if !strings.Contains(out, "harmony") || !strings.Contains(out, "config.yaml") {
		t.Errorf("unexpected path output: %q", out)
	}
}

func TestSimConfigFrom(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	sc := simConfigFrom(cfg)
	if sc.FleetSize != cfg.Sim.FleetSize {
		t.Errorf("FleetSize = %d, want %d", sc.FleetSize, cfg.Sim.FleetSize)
	}
	if sc.AssignDelay != cfg.Sim.AssignDelay() {
		t.Errorf("AssignDelay = %v, want %v", sc.AssignDelay, cfg.Sim.AssignDelay())
	}
	if sc.ClientTimeout <= sc.HeartbeatInterval {
		t.Error("ClientTimeout should exceed HeartbeatInterval")
	}
}

func TestDashboardLogDirAvoidsStderr(t *testing.T) {
	cfg := config.Default()
	if cfg.Logging.Dir != "" {
		t.Fatalf("default log dir = %q, want unset", cfg.Logging.Dir)
	}

	// An unset dir must resolve to a real directory, never the stderr
	// sentinel, or log lines would tear through the live dashboard.
	if got := dashboardLogDir(cfg); got == "" {
		t.Error("dashboardLogDir() = \"\", want a file destination")
	} else if got != config.ConfigDir() {
		t.Errorf("dashboardLogDir() = %q, want %q", got, config.ConfigDir())
	}

	cfg.Logging.Dir = "/tmp/harmony-logs"
	if got := dashboardLogDir(cfg); got != "/tmp/harmony-logs" {
		t.Errorf("dashboardLogDir() = %q, want the configured dir", got)
	}
}
