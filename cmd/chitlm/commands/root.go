// Package commands implements the chitlm CLI command tree.
package commands

import (
	"github.com/spf13/cobra"
)

// Version information, set by main from ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "chitlm",
	Short: "CHI transaction-level bridge and traffic-generator testbench",
	Long: `chitlm bridges AMBA CHI transaction-level traffic onto an internal
message-based coherence protocol and back, and drives it with a
tick-scheduled traffic generator enforcing ordered expectation chains.

Run a scenario:
  chitlm run --scenario scenario.yaml

Run the built-in demo traffic:
  chitlm run

Environment variables override configuration using the CHITLM_ prefix:
  CHITLM_LOGGING_LEVEL=DEBUG chitlm run`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
