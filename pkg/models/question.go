// Package models defines the shared data model for the maker pipeline:
// classifications, sub-questions, votes, and results.
package models

// QuestionType categorizes a question for decomposition and routing.
type QuestionType string

const (
	// TypeFactual is a single-fact lookup question.
	TypeFactual QuestionType = "factual"
	// TypeComparative compares two or more entities.
	TypeComparative QuestionType = "comparative"
	// TypeMultiHop requires chaining multiple lookups.
	TypeMultiHop QuestionType = "multi_hop"
	// TypeAggregative aggregates over a set of facts.
	TypeAggregative QuestionType = "aggregative"
	// TypeProcedural asks how to do something.
	TypeProcedural QuestionType = "procedural"
	// TypeAnalytical requires reasoning over facts.
	TypeAnalytical QuestionType = "analytical"
)

// Valid returns true if the question type is a known value.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeFactual, TypeComparative, TypeMultiHop, TypeAggregative, TypeProcedural, TypeAnalytical:
		return true
	default:
		return false
	}
}

// ParseQuestionType maps a raw string to a QuestionType, defaulting to
// factual for unknown values.
func ParseQuestionType(s string) QuestionType {
	t := QuestionType(s)
	if t.Valid() {
		return t
	}
	return TypeFactual
}

// Classification is the one-shot judgment of a top-level question.
// Produced once per question and never mutated.
type Classification struct {
	// NeedsDecomposition indicates the question should be split.
	NeedsDecomposition bool `json:"needs_decomposition"`
	// Complexity is an estimate from 1 (trivial) to 10 (hardest).
	Complexity int `json:"complexity"`
	// QuestionType categorizes the question.
	QuestionType QuestionType `json:"question_type"`
	// Reasoning is the model's optional explanation.
	Reasoning string `json:"reasoning,omitempty"`
}

// SubQuestion is one atomic unit of a decomposition plan.
// Immutable once produced by the decomposer.
type SubQuestion struct {
	// ID is the unique identifier within the plan (sq1, sq2, ...).
	ID string `json:"id"`
	// Question is the sub-question text.
	Question string `json:"question"`
	// DependsOn lists IDs of sub-questions this one builds on.
	// Dependencies are advisory: execution always follows plan order.
	DependsOn []string `json:"depends_on,omitempty"`
	// Type categorizes the sub-question.
	Type QuestionType `json:"type"`
	// Index is the position in the plan.
	Index int `json:"index"`
}
