// Package orchestrator sequences decomposition, voting, and synthesis
// into one answer pipeline and reports progress as typed events.
package orchestrator

import (
	"time"

	"github.com/ShayCichocki/maker/pkg/models"
)

// EventType represents the type of pipeline event.
type EventType string

const (
	// EventClassification carries the question classification.
	EventClassification EventType = "classification"
	// EventDecomposition carries the sub-question plan.
	EventDecomposition EventType = "decomposition"
	// EventVotingStarted indicates voting began for a sub-question.
	EventVotingStarted EventType = "voting_started"
	// EventVote reports one accounted sample with a live tally snapshot.
	EventVote EventType = "vote"
	// EventRedFlag reports a sample rejected by the admission filter.
	EventRedFlag EventType = "red_flag"
	// EventVotingComplete carries a finished voting session's result.
	EventVotingComplete EventType = "voting_complete"
	// EventSubQuestionResolved carries one durable sub-question record.
	EventSubQuestionResolved EventType = "subquestion_resolved"
	// EventSynthesisStarted indicates the merge step began.
	EventSynthesisStarted EventType = "synthesis_started"
	// EventSynthesisComplete carries the merged answer.
	EventSynthesisComplete EventType = "synthesis_complete"
	// EventComplete carries the final MakerResult.
	EventComplete EventType = "complete"
)

// Event is one immutable progress record. Fields beyond Type, RunID and
// Timestamp are populated per event type.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// RunID identifies the Ask invocation this event belongs to.
	RunID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// SubQuestion is the plan entry in scope, for per-sub-question events.
	SubQuestion *models.SubQuestion
	// Classification is set on classification events.
	Classification *models.Classification
	// Plan is the full sub-question list on decomposition events.
	Plan []models.SubQuestion
	// SynthesisStrategy is set on decomposition events.
	SynthesisStrategy string
	// Vote is the sample just accounted for, on vote and red_flag events.
	Vote *models.Vote
	// Tally is the live distribution snapshot on vote events, keyed by
	// normalized answer.
	Tally map[string]int
	// VotingResult is set on voting_complete events.
	VotingResult *models.VotingResult
	// SubResult is set on subquestion_resolved events.
	SubResult *models.SubQuestionResult
	// Answer is the merged answer on synthesis_complete events.
	Answer string
	// Confidence is the merged confidence on synthesis_complete events.
	Confidence models.Confidence
	// Result is the final output on complete events.
	Result *models.MakerResult
}

// EventSink receives pipeline events. Sinks are called synchronously at
// emission points, in strict vote-index order within a sub-question and
// plan order across sub-questions. A sink must not block.
type EventSink func(Event)
