package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/maker/internal/decompose"
	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/internal/redflag"
	"github.com/ShayCichocki/maker/internal/synthesize"
	"github.com/ShayCichocki/maker/internal/voting"
	"github.com/ShayCichocki/maker/pkg/models"
)

// Config configures a Maker pipeline.
type Config struct {
	// Provider names the oracle backend to resolve at construction.
	Provider string
	// ProviderSettings carries backend construction options.
	ProviderSettings provider.Settings
	// Oracle is a pre-built capability handle. When set, Provider and
	// ProviderSettings are ignored.
	Oracle provider.Provider

	// K is the required lead margin for consensus. Zero means default.
	K int
	// MaxVotes is the per-sub-question safety cutoff. Zero means default.
	MaxVotes int

	// RedFlag configures the admission filter.
	RedFlag redflag.Options
	// Decomposition configures the classifier/decomposer.
	Decomposition decompose.Options
	// Synthesis configures the answer merge step.
	Synthesis synthesize.Options

	// Sink receives progress events. Optional; each Maker owns its own
	// independent sink.
	Sink EventSink
	// Logger receives debug lines. Nil disables logging.
	Logger *DebugLogger
}

// Maker answers questions by decomposing them, resolving each
// sub-question through a consensus vote, and synthesizing the results.
type Maker struct {
	oracle      provider.Provider
	decomposer  *decompose.Decomposer
	engine      *voting.Engine
	synthesizer *synthesize.Synthesizer
	sink        EventSink
	logger      *DebugLogger
}

// New builds a Maker. An unknown provider name is a fatal configuration
// error, raised here rather than deferred to the first Ask call.
func New(cfg Config) (*Maker, error) {
	oracle := cfg.Oracle
	if oracle == nil {
		var err error
		oracle, err = provider.New(cfg.Provider, cfg.ProviderSettings)
		if err != nil {
			return nil, fmt.Errorf("resolve provider: %w", err)
		}
	}

	filter := redflag.New(cfg.RedFlag)

	return &Maker{
		oracle:      oracle,
		decomposer:  decompose.New(oracle, cfg.Decomposition),
		engine:      voting.NewEngine(cfg.K, cfg.MaxVotes, filter),
		synthesizer: synthesize.New(oracle, cfg.Synthesis),
		sink:        cfg.Sink,
		logger:      cfg.Logger,
	}, nil
}

// AskOptions tunes a single Ask invocation.
type AskOptions struct {
	// Context is advisory background text passed to every oracle call
	// for this question.
	Context string
	// K overrides the configured lead margin when positive.
	K int
}

// Ask resolves a question end to end and always returns a result:
// failed samples, failed parses, and exhausted vote budgets degrade
// into low-confidence outcomes rather than errors.
func (m *Maker) Ask(ctx context.Context, question string, opts AskOptions) *models.MakerResult {
	start := time.Now()
	runID := uuid.New().String()
	m.logger.Log("ask %s: %q", runID, question)

	plan := m.decomposer.Decompose(ctx, question, opts.Context)
	m.emit(Event{
		Type:           EventClassification,
		RunID:          runID,
		Classification: &plan.Classification,
	})
	m.emit(Event{
		Type:              EventDecomposition,
		RunID:             runID,
		Plan:              plan.SubQuestions,
		SynthesisStrategy: plan.SynthesisStrategy,
	})
	m.logger.Log("ask %s: %d sub-question(s), strategy %s", runID, len(plan.SubQuestions), plan.SynthesisStrategy)

	// Sub-questions run strictly in plan order. Declared dependencies
	// are recorded in the plan but do not reorder or gate execution.
	subResults := make([]models.SubQuestionResult, 0, len(plan.SubQuestions))
	for i := range plan.SubQuestions {
		sq := plan.SubQuestions[i]
		m.emit(Event{Type: EventVotingStarted, RunID: runID, SubQuestion: &sq})

		vr := m.engine.VoteUntilConsensus(ctx, m.oracle, sq.Question, opts.Context, voting.SessionOptions{
			K: opts.K,
			OnVote: func(p voting.Progress) {
				vote := p.Vote
				m.emit(Event{
					Type:        EventVote,
					RunID:       runID,
					SubQuestion: &sq,
					Vote:        &vote,
					Tally:       p.Tally,
				})
				if vote.RedFlagged {
					m.emit(Event{
						Type:        EventRedFlag,
						RunID:       runID,
						SubQuestion: &sq,
						Vote:        &vote,
					})
				}
			},
		})
		m.emit(Event{Type: EventVotingComplete, RunID: runID, SubQuestion: &sq, VotingResult: &vr})
		m.logger.Log("ask %s: %s consensus=%t winner=%q votes=%d/%d", runID, sq.ID, vr.ConsensusReached, vr.Winner, vr.Stats.ValidVotes, vr.Stats.TotalVotes)

		sr := models.SubQuestionResult{
			SubQuestion:      sq,
			Answer:           vr.Winner,
			Confidence:       vr.Confidence,
			ConsensusReached: vr.ConsensusReached,
			Stats:            vr.Stats,
		}
		m.emit(Event{Type: EventSubQuestionResolved, RunID: runID, SubQuestion: &sq, SubResult: &sr})
		subResults = append(subResults, sr)
	}

	m.emit(Event{Type: EventSynthesisStarted, RunID: runID})
	answer, confidence := m.synthesizer.Synthesize(ctx, question, subResults)
	m.emit(Event{Type: EventSynthesisComplete, RunID: runID, Answer: answer, Confidence: confidence})

	consensus := true
	for _, sr := range subResults {
		consensus = consensus && sr.ConsensusReached
	}
	if !consensus {
		// Exhausted vote budgets are a first-class outcome, reported
		// as degraded confidence rather than a failure.
		confidence = models.ConfidenceLow
	}

	result := &models.MakerResult{
		Answer:            answer,
		Confidence:        confidence,
		ConsensusReached:  consensus,
		IsDecomposed:      len(plan.SubQuestions) > 1,
		SubQuestions:      subResults,
		SynthesisStrategy: plan.SynthesisStrategy,
		Stats:             aggregateStats(subResults, m.kFor(opts)),
		ExecutionTime:     time.Since(start),
	}
	m.emit(Event{Type: EventComplete, RunID: runID, Result: result})
	m.logger.Log("ask %s: done in %s, confidence %s", runID, result.ExecutionTime, result.Confidence)
	return result
}

func (m *Maker) kFor(opts AskOptions) int {
	if opts.K > 0 {
		return opts.K
	}
	return m.engine.K()
}

func (m *Maker) emit(event Event) {
	if m.sink == nil {
		return
	}
	event.Timestamp = time.Now()
	m.sink(event)
}

// aggregateStats rolls voting stats up across sub-results: vote
// counters are summed, while winning count and margin take the minimum
// as a conservative worst-case view.
func aggregateStats(subResults []models.SubQuestionResult, k int) models.VotingStats {
	agg := models.VotingStats{K: k}
	for i, sr := range subResults {
		agg.TotalVotes += sr.Stats.TotalVotes
		agg.ValidVotes += sr.Stats.ValidVotes
		agg.RedFlaggedVotes += sr.Stats.RedFlaggedVotes
		if i == 0 || sr.Stats.WinningVoteCount < agg.WinningVoteCount {
			agg.WinningVoteCount = sr.Stats.WinningVoteCount
		}
		if i == 0 || sr.Stats.Margin < agg.Margin {
			agg.Margin = sr.Stats.Margin
		}
	}
	return agg
}
