package voting

import (
	"strings"

	"github.com/ShayCichocki/maker/pkg/models"
)

// Normalize canonicalizes an answer for tallying: lowercase, trim,
// collapse whitespace runs, strip trailing punctuation. Idempotent.
func Normalize(answer string) string {
	s := strings.ToLower(strings.TrimSpace(answer))
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".,!?;:")
	return strings.TrimSpace(s)
}

// bucket holds the running state for one distinct normalized answer.
// Counts only increase; a bucket is never removed once created.
type bucket struct {
	count      int
	display    string
	confidence models.Confidence
}

// tally is the vote distribution for one voting session. It is owned
// exclusively by the session's call frame and never escapes it.
type tally struct {
	buckets map[string]*bucket
	order   []string
}

func newTally() *tally {
	return &tally{buckets: make(map[string]*bucket)}
}

// add records an admitted vote. Returns false when the answer
// normalizes to the empty string and contributes to no bucket.
func (t *tally) add(answer string, conf models.Confidence) bool {
	key := Normalize(answer)
	if key == "" {
		return false
	}
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{display: answer, confidence: conf}
		t.buckets[key] = b
		t.order = append(t.order, key)
	} else if conf.Rank() > b.confidence.Rank() {
		b.confidence = conf
	}
	b.count++
	return true
}

// leader returns the bucket with the highest count, or nil when the
// tally is empty. Ties go to the earliest-created bucket so results
// are deterministic.
func (t *tally) leader() *bucket {
	var best *bucket
	for _, key := range t.order {
		b := t.buckets[key]
		if best == nil || b.count > best.count {
			best = b
		}
	}
	return best
}

// margins returns the leading count and the runner-up count.
// The runner-up is 0 when fewer than two distinct answers exist.
func (t *tally) margins() (maxCount, runnerUp int) {
	for _, b := range t.buckets {
		switch {
		case b.count > maxCount:
			runnerUp = maxCount
			maxCount = b.count
		case b.count > runnerUp:
			runnerUp = b.count
		}
	}
	return maxCount, runnerUp
}

// counts returns a copy of the distribution keyed by normalized answer,
// for progress reporting.
func (t *tally) counts() map[string]int {
	out := make(map[string]int, len(t.buckets))
	for key, b := range t.buckets {
		out[key] = b.count
	}
	return out
}

// DetermineWinner scores a pre-supplied fixed list of votes with the
// same winner and margin semantics as the continuous loop. With exactly
// one distinct normalized answer, consensus requires only count >= k.
//
// Deprecated: exists for direct scoring of collected vote batches; use
// Engine.VoteUntilConsensus for live sampling.
func DetermineWinner(votes []models.Vote, k int) models.VotingResult {
	if k <= 0 {
		k = DefaultK
	}

	t := newTally()
	stats := models.VotingStats{K: k}
	for _, v := range votes {
		stats.TotalVotes++
		if v.RedFlagged {
			stats.RedFlaggedVotes++
			continue
		}
		stats.ValidVotes++
		t.add(v.Answer, v.Confidence)
	}

	result := models.VotingResult{Stats: stats}
	leader := t.leader()
	if leader == nil {
		return result
	}

	maxCount, runnerUp := t.margins()
	result.Stats.WinningVoteCount = maxCount
	result.Stats.Margin = maxCount - runnerUp
	result.Winner = leader.display
	result.Confidence = leader.confidence
	result.ConsensusReached = result.Stats.Margin >= k
	return result
}
