package voting

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/pkg/models"
)

// CollectVotes draws a fixed number of samples and returns them in
// index order. Unlike VoteUntilConsensus it does not early-stop, so the
// samples may be drawn in parallel. Feed the result to DetermineWinner.
//
// Deprecated: kept for batch testing of the scoring logic. The
// continuous loop is the primary operation; its early stopping is the
// point of first-to-ahead-by-K.
func (e *Engine) CollectVotes(ctx context.Context, oracle provider.Provider, question, contextText string, count int) []models.Vote {
	if count <= 0 {
		count = e.maxVotes
	}

	votes := make([]models.Vote, count)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			temperature := resampleTemperature
			if i == 0 {
				temperature = firstSampleTemperature
			}
			vote := e.sample(ctx, oracle, question, contextText, i, temperature)
			if !vote.RedFlagged {
				if res := e.filter.Check(vote.Answer, vote.ParseOK); res.Flagged {
					vote.RedFlagged = true
					vote.FlagReason = string(res.Reason)
				}
			}
			mu.Lock()
			votes[i] = vote
			mu.Unlock()
			return nil
		})
	}

	// Workers only report failures as flagged votes; Wait cannot fail.
	_ = g.Wait()
	return votes
}
