package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maker",
	Short: "Reliable answers from an unreliable language model",
	Long: `Maker answers a natural-language question by decomposing it into
atomic sub-questions, resolving each one through a repeated-sampling
consensus vote, and filtering out unreliable samples before they can
corrupt the vote.

The voting rule is first-to-ahead-by-K: sampling continues until one
normalized answer leads the runner-up by at least K votes, converting
an occasionally-wrong oracle into a primitive with a tunable error rate.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	Execute()
}
