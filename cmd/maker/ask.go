package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/maker/internal/config"
	"github.com/ShayCichocki/maker/internal/decompose"
	"github.com/ShayCichocki/maker/internal/history"
	"github.com/ShayCichocki/maker/internal/orchestrator"
	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/internal/redflag"
	"github.com/ShayCichocki/maker/internal/synthesize"
	"github.com/ShayCichocki/maker/pkg/models"
)

var (
	askContext     string
	askK           int
	askMaxVotes    int
	askNoDecompose bool
	askNoSynthesis bool
	askVerbose     bool
	askDebugLog    string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question through consensus voting",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askContext, "context", "", "Advisory background text passed to every oracle call")
	askCmd.Flags().IntVar(&askK, "k", 0, "Required lead margin for consensus (0 uses config)")
	askCmd.Flags().IntVar(&askMaxVotes, "max-votes", 0, "Safety cutoff on samples per sub-question (0 uses config)")
	askCmd.Flags().BoolVar(&askNoDecompose, "no-decompose", false, "Treat the question as atomic")
	askCmd.Flags().BoolVar(&askNoSynthesis, "no-synthesis", false, "Skip the oracle-backed answer merge")
	askCmd.Flags().BoolVar(&askVerbose, "verbose", false, "Print every vote as it is drawn")
	askCmd.Flags().StringVar(&askDebugLog, "debug-log", "", "Write a timestamped pipeline trace to this file")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	maxVotes := cfg.Voting.MaxVotes
	if askMaxVotes > 0 {
		maxVotes = askMaxVotes
	}

	oracle, err := provider.New(cfg.Provider.Name, provider.Settings{
		Model:         cfg.Provider.Model,
		APIKey:        cfg.Provider.APIKey,
		BaseURL:       cfg.Provider.BaseURL,
		UseAWSBedrock: cfg.Provider.UseAWSBedrock,
		AWSRegion:     cfg.Provider.AWSRegion,
		AWSProfile:    cfg.Provider.AWSProfile,
	})
	if err != nil {
		return err
	}

	var logger *orchestrator.DebugLogger
	if askDebugLog != "" {
		logger, err = orchestrator.NewDebugLogger(askDebugLog)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer logger.Close()
	}

	var lastRunID string
	maker, err := orchestrator.New(orchestrator.Config{
		Oracle:   oracle,
		K:        cfg.Voting.K,
		MaxVotes: maxVotes,
		Logger:   logger,
		RedFlag: redflag.Options{
			MinChars:  cfg.RedFlag.MinChars,
			MaxTokens: cfg.RedFlag.MaxTokens,
		},
		Decomposition: decompose.Options{
			Enabled:         cfg.Decomposition.Enabled && !askNoDecompose,
			MaxSubQuestions: cfg.Decomposition.MaxSubQuestions,
		},
		Synthesis: synthesize.Options{
			Enabled:  cfg.Synthesis.Enabled && !askNoSynthesis,
			Language: cfg.Synthesis.Language,
		},
		Sink: func(event orchestrator.Event) {
			lastRunID = event.RunID
			renderEvent(event)
		},
	})
	if err != nil {
		return err
	}

	result := maker.Ask(cmd.Context(), question, orchestrator.AskOptions{
		Context: askContext,
		K:       askK,
	})

	fmt.Println()
	if result.ConsensusReached {
		fmt.Printf("%s %s\n", color.GreenString("Answer:"), result.Answer)
	} else {
		fmt.Printf("%s %s\n", color.YellowString("Answer (no consensus):"), result.Answer)
	}
	fmt.Printf("Confidence: %s  Votes: %d total, %d valid, %d flagged  Time: %s\n",
		confidenceString(result.Confidence), result.Stats.TotalVotes,
		result.Stats.ValidVotes, result.Stats.RedFlaggedVotes,
		result.ExecutionTime.Round(10*time.Millisecond))

	if askVerbose {
		if tracked, ok := oracle.(provider.Tracked); ok {
			tracker := tracked.Tracker()
			in, out := tracker.Total()
			fmt.Printf("Tokens: %d in, %d out over %d calls  Est. cost: $%.4f\n",
				in, out, tracker.Calls(), tracker.Cost())
		}
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s history unavailable: %v\n", color.YellowString("warning:"), err)
			return nil
		}
		defer store.Close()
		if err := store.Record(cmd.Context(), lastRunID, question, result); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not record answer: %v\n", color.YellowString("warning:"), err)
		}
	}

	return nil
}

func renderEvent(event orchestrator.Event) {
	switch event.Type {
	case orchestrator.EventClassification:
		if askVerbose && event.Classification != nil {
			fmt.Printf("%s type=%s complexity=%d decompose=%t\n",
				color.CyanString("classified:"), event.Classification.QuestionType,
				event.Classification.Complexity, event.Classification.NeedsDecomposition)
		}
	case orchestrator.EventDecomposition:
		if len(event.Plan) > 1 {
			fmt.Printf("%s %d sub-questions (%s)\n", color.CyanString("plan:"), len(event.Plan), event.SynthesisStrategy)
			for _, sq := range event.Plan {
				fmt.Printf("  %s %s\n", sq.ID, sq.Question)
			}
		}
	case orchestrator.EventVotingStarted:
		if event.SubQuestion != nil {
			fmt.Printf("%s %s\n", color.CyanString("voting:"), event.SubQuestion.Question)
		}
	case orchestrator.EventVote:
		if askVerbose && event.Vote != nil {
			status := color.GreenString("✓")
			if event.Vote.RedFlagged {
				status = color.RedString("✗ " + event.Vote.FlagReason)
			}
			fmt.Printf("  vote %d: %q %s\n", event.Vote.Index+1, event.Vote.Answer, status)
		}
	case orchestrator.EventVotingComplete:
		if event.VotingResult != nil {
			vr := event.VotingResult
			if vr.ConsensusReached {
				fmt.Printf("  %s %q (margin %d after %d votes)\n",
					color.GreenString("consensus:"), vr.Winner, vr.Stats.Margin, vr.Stats.TotalVotes)
			} else {
				fmt.Printf("  %s best effort %q (margin %d after %d votes)\n",
					color.YellowString("no consensus:"), vr.Winner, vr.Stats.Margin, vr.Stats.TotalVotes)
			}
		}
	case orchestrator.EventSynthesisStarted:
		if askVerbose {
			fmt.Printf("%s merging sub-answers\n", color.CyanString("synthesis:"))
		}
	}
}

func confidenceString(c models.Confidence) string {
	switch c {
	case models.ConfidenceHigh:
		return color.GreenString("high")
	case models.ConfidenceMedium:
		return color.YellowString("medium")
	default:
		return color.RedString("low")
	}
}
