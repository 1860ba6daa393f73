// Package cmd implements the harmony command-line interface.
package cmd

import (
	"strings"

	"github.com/jsonharmony/harmony/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the build version, overridable at link time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "harmony",
	Version: Version,
	Short:   "Distributed matrix computation dashboard",
	Long: `Harmony runs a simulated distributed matrix-multiplication cluster
and renders it in a live terminal dashboard: server controls, worker
clients, task lifecycle, and performance charts.`,
	RunE: runDashboard,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/harmony/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("HARMONY")
	// Replace dots with underscores for nested keys in env vars
	// e.g., HARMONY_SIM_FLEET_SIZE for sim.fleet_size
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
