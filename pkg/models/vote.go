package models

// Vote is one oracle sample for a question. Created per sample and
// consumed immediately by the voting engine.
type Vote struct {
	// Index is the zero-based position of this sample in the session.
	Index int `json:"index"`
	// Answer is the sampled answer text.
	Answer string `json:"answer"`
	// Confidence is the sample's self-reported confidence.
	Confidence Confidence `json:"confidence"`
	// Temperature is the sampling temperature used for this vote.
	Temperature float64 `json:"temperature"`
	// ParseOK indicates the structured response parsed into the
	// expected shape.
	ParseOK bool `json:"parse_ok"`
	// RedFlagged indicates the admission filter rejected this sample.
	RedFlagged bool `json:"red_flagged,omitempty"`
	// FlagReason is the rejection reason, if red-flagged.
	FlagReason string `json:"flag_reason,omitempty"`
}

// VotingStats summarizes one voting session. Derived, read-only.
type VotingStats struct {
	// TotalVotes is the number of oracle samples drawn.
	TotalVotes int `json:"total_votes"`
	// ValidVotes is the number of samples admitted by the filter.
	ValidVotes int `json:"valid_votes"`
	// RedFlaggedVotes is the number of samples rejected by the filter.
	RedFlaggedVotes int `json:"red_flagged_votes"`
	// WinningVoteCount is the leading bucket's count.
	WinningVoteCount int `json:"winning_vote_count"`
	// Margin is the winning count minus the runner-up count.
	Margin int `json:"margin"`
	// K is the lead margin required for consensus.
	K int `json:"k"`
}

// VotingResult is the terminal output of one voting session.
// An empty Winner means no bucket existed at all (every sample was
// rejected or normalized to nothing).
type VotingResult struct {
	// ConsensusReached indicates the lead margin reached K before the
	// safety cutoff.
	ConsensusReached bool `json:"consensus_reached"`
	// Winner is the original-case answer text of the leading bucket.
	Winner string `json:"winner,omitempty"`
	// Confidence is the best confidence recorded for the winning bucket.
	Confidence Confidence `json:"confidence,omitempty"`
	// Stats summarizes the session.
	Stats VotingStats `json:"stats"`
}
