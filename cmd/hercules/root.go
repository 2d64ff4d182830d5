package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "hercules",
	Short: "Hercules - configuration runtime for an automated test-execution agent",
	Long: `Hercules resolves the run-time configuration for an automated
test-execution agent from command-line flags, environment variables, an
optional configuration file, and built-in defaults, then provisions the
workspace directory layout for a run.

Precedence (later overrides earlier): defaults, configuration file,
environment variables, command-line flags.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file path (flat JSON or YAML mapping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
