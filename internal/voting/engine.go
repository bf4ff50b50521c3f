// Package voting implements the first-to-ahead-by-K consensus engine:
// repeated oracle sampling with an admission filter gating the tally.
package voting

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/internal/redflag"
	"github.com/ShayCichocki/maker/pkg/models"
)

const (
	// DefaultK is the required lead margin for consensus.
	DefaultK = 3
	// DefaultMaxVotes is the safety cutoff on samples per session.
	DefaultMaxVotes = 100

	// firstSampleTemperature and resampleTemperature form the fixed
	// sampling schedule: the first sample is greedy, later samples add
	// a little variety.
	firstSampleTemperature = 0.0
	resampleTemperature    = 0.1
)

// Progress is the per-vote report passed to the progress callback.
type Progress struct {
	// Vote is the sample just accounted for.
	Vote models.Vote
	// Tally is a snapshot of the current distribution, keyed by
	// normalized answer.
	Tally map[string]int
}

// ProgressFunc observes votes as they are accounted for.
type ProgressFunc func(Progress)

// Engine runs voting sessions against an oracle.
type Engine struct {
	k        int
	maxVotes int
	filter   *redflag.Filter
}

// NewEngine creates a voting engine. Zero k or maxVotes take defaults;
// a nil filter gets the default admission filter.
func NewEngine(k, maxVotes int, filter *redflag.Filter) *Engine {
	if k <= 0 {
		k = DefaultK
	}
	if maxVotes <= 0 {
		maxVotes = DefaultMaxVotes
	}
	if filter == nil {
		filter = redflag.New(redflag.Options{})
	}
	return &Engine{k: k, maxVotes: maxVotes, filter: filter}
}

// K returns the configured lead margin.
func (e *Engine) K() int { return e.k }

// MaxVotes returns the configured safety cutoff.
func (e *Engine) MaxVotes() int { return e.maxVotes }

// SessionOptions tunes a single voting session.
type SessionOptions struct {
	// K overrides the engine's lead margin when positive.
	K int
	// OnVote observes each sample as it is accounted for.
	OnVote ProgressFunc
}

// VoteUntilConsensus samples the oracle for one question until one
// normalized answer is ahead of the runner-up by at least K, or the
// safety cutoff is reached. Oracle failures and rejected samples never
// abort the loop; they are accounted for and sampling continues.
// Context cancellation only stops further sampling; the result is
// computed from the tally so far with consensus forced false.
func (e *Engine) VoteUntilConsensus(ctx context.Context, oracle provider.Provider, question, contextText string, opts SessionOptions) models.VotingResult {
	k := e.k
	if opts.K > 0 {
		k = opts.K
	}

	t := newTally()
	stats := models.VotingStats{K: k}

	for stats.TotalVotes < e.maxVotes {
		if ctx.Err() != nil {
			break
		}

		temperature := resampleTemperature
		if stats.TotalVotes == 0 {
			temperature = firstSampleTemperature
		}

		vote := e.sample(ctx, oracle, question, contextText, stats.TotalVotes, temperature)
		stats.TotalVotes++

		if !vote.RedFlagged {
			if res := e.filter.Check(vote.Answer, vote.ParseOK); res.Flagged {
				vote.RedFlagged = true
				vote.FlagReason = string(res.Reason)
			}
		}

		tallied := false
		if vote.RedFlagged {
			stats.RedFlaggedVotes++
		} else {
			stats.ValidVotes++
			tallied = t.add(vote.Answer, vote.Confidence)
		}

		if opts.OnVote != nil {
			opts.OnVote(Progress{Vote: vote, Tally: t.counts()})
		}

		if tallied {
			if maxCount, runnerUp := t.margins(); maxCount-runnerUp >= k {
				leader := t.leader()
				stats.WinningVoteCount = maxCount
				stats.Margin = maxCount - runnerUp
				return models.VotingResult{
					ConsensusReached: true,
					Winner:           leader.display,
					Confidence:       leader.confidence,
					Stats:            stats,
				}
			}
		}
	}

	// Safety cutoff: consensus not reached, return the current leader
	// (if any) as a best-effort winner.
	result := models.VotingResult{Stats: stats}
	if leader := t.leader(); leader != nil {
		maxCount, runnerUp := t.margins()
		result.Stats.WinningVoteCount = maxCount
		result.Stats.Margin = maxCount - runnerUp
		result.Winner = leader.display
		result.Confidence = leader.confidence
	}
	return result
}

// voteResponse is the structured shape requested from the oracle for
// each sample.
type voteResponse struct {
	Answer     string `json:"answer"`
	Confidence string `json:"confidence"`
}

// sample draws one vote. An oracle invocation failure is converted to a
// pre-flagged empty vote rather than surfaced; the loop must not abort.
func (e *Engine) sample(ctx context.Context, oracle provider.Provider, question, contextText string, index int, temperature float64) models.Vote {
	vote := models.Vote{
		Index:       index,
		Confidence:  models.ConfidenceLow,
		Temperature: temperature,
	}

	resp, err := oracle.Complete(ctx, provider.Request{
		Messages:    voteMessages(question, contextText),
		Temperature: temperature,
		Structured:  true,
	})
	if err != nil {
		vote.RedFlagged = true
		vote.FlagReason = string(redflag.ReasonInvalidFormat)
		return vote
	}

	var parsed voteResponse
	if resp.JSON != nil && json.Unmarshal(resp.JSON, &parsed) == nil && parsed.Answer != "" {
		vote.ParseOK = true
		vote.Answer = parsed.Answer
		vote.Confidence = models.ParseConfidence(parsed.Confidence, models.ConfidenceMedium)
	} else {
		vote.Answer = resp.Text
	}
	return vote
}

func voteMessages(question, contextText string) []provider.Message {
	system := "Answer the question as directly and concisely as possible. " +
		`Respond as JSON: {"answer": "<your answer>", "confidence": "high|medium|low"}`

	user := question
	if contextText != "" {
		user = fmt.Sprintf("Background:\n%s\n\nQuestion: %s", contextText, question)
	}

	return []provider.Message{
		{Role: provider.RoleSystem, Content: system},
		{Role: provider.RoleUser, Content: user},
	}
}
