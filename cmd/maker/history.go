package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/maker/internal/config"
	"github.com/ShayCichocki/maker/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently answered questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		path := cfg.History.Path
		if path == "" {
			path = history.DefaultPath()
		}

		store, err := history.Open(path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No answered questions yet.")
			return nil
		}

		for _, e := range entries {
			marker := color.GreenString("✓")
			if !e.ConsensusReached {
				marker = color.YellowString("~")
			}
			fmt.Printf("%s %s\n  %s (%s, %d/%d votes, %s)\n",
				marker, e.Question, e.Answer, e.Confidence,
				e.ValidVotes, e.TotalVotes, e.AskedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to list")
}
