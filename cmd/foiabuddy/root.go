package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "foiabuddy",
	Short: "Multi-agent processing for public records requests",
	Long: `foiabuddy processes public records requests against a local
document corpus using a pipeline of cooperating agents.

A request is analyzed, turned into a staged execution plan, and run
through discovery, parsing, research, and synthesis agents. Every
orchestration decision is logged, and finished runs are saved for audit.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
