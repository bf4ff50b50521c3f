package models

import "time"

// SubQuestionResult is the durable record of one resolved sub-question.
type SubQuestionResult struct {
	// SubQuestion is the plan entry this result answers.
	SubQuestion SubQuestion `json:"sub_question"`
	// Answer is the winning answer text, empty when voting produced
	// no bucket at all.
	Answer string `json:"answer,omitempty"`
	// Confidence is the winning bucket's best confidence.
	Confidence Confidence `json:"confidence,omitempty"`
	// ConsensusReached indicates the voting session reached consensus.
	ConsensusReached bool `json:"consensus_reached"`
	// Stats summarizes the voting session.
	Stats VotingStats `json:"stats"`
}

// MakerResult is the final output of one Ask invocation.
type MakerResult struct {
	// Answer is the final (possibly synthesized) answer text.
	Answer string `json:"answer"`
	// Confidence is the overall confidence after rollup.
	Confidence Confidence `json:"confidence"`
	// ConsensusReached is the logical AND across all sub-results.
	ConsensusReached bool `json:"consensus_reached"`
	// IsDecomposed indicates the question was split into sub-questions.
	IsDecomposed bool `json:"is_decomposed"`
	// SubQuestions holds the resolved sub-question records in plan order.
	SubQuestions []SubQuestionResult `json:"sub_questions"`
	// SynthesisStrategy is the strategy tag from the decomposer.
	SynthesisStrategy string `json:"synthesis_strategy"`
	// Stats is the conservative rollup across sub-results: vote
	// counters are summed, winning count and margin take the minimum.
	Stats VotingStats `json:"stats"`
	// ExecutionTime is the wall-clock duration of the Ask call.
	ExecutionTime time.Duration `json:"execution_time"`
}
