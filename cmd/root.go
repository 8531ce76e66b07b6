// Package cmd provides the CLI commands for the Current application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	logFile    string
	noSound    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "current",
	Short: "Current - an emotion-aware focus timer",
	Long: `Current is a terminal focus timer. Set an intention, check in with
how starting feels, pick a duration and ride the current.

Run "current" with no arguments to start at the intention screen.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.current/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file (default: log.file from config, or none)")
	rootCmd.PersistentFlags().BoolVar(&noSound, "no-sound", false, "Silence the completion beep")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("Current\nVersion: {{.Version}}\nCommit: %s\nBuilt: %s\n", GitCommit, BuildDate))

	// Add subcommands
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(configCmd)
}
