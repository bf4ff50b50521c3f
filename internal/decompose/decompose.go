// Package decompose provides question classification and decomposition
// into atomic sub-questions.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/pkg/models"
)

// DefaultMaxSubQuestions caps the length of a decomposition plan.
const DefaultMaxSubQuestions = 8

// StrategyNone tags plans that need no synthesis step.
const StrategyNone = "none"

// defaultStrategy tags decomposed plans whose synthesis strategy the
// model left unspecified.
const defaultStrategy = "sequential"

// ClassifierFunc is a caller-supplied classification function, used in
// place of the oracle call.
type ClassifierFunc func(ctx context.Context, question, contextText string) (models.Classification, error)

// Options configures a Decomposer.
type Options struct {
	// Enabled gates decomposition. When false, every question is
	// treated as atomic without any oracle call.
	Enabled bool
	// MaxSubQuestions caps the plan length. Zero means the default.
	MaxSubQuestions int
	// Classifier replaces the oracle-based classification when set.
	Classifier ClassifierFunc
	// PromptTemplate overrides the decomposition prompt; {{question}}
	// and {{context}} are substituted.
	PromptTemplate string
}

// Plan is the output of decomposing one question.
type Plan struct {
	// SubQuestions is the ordered list of atomic sub-questions.
	SubQuestions []models.SubQuestion
	// SynthesisStrategy tags how resolved answers should be merged.
	SynthesisStrategy string
	// Classification is the judgment that produced this plan.
	Classification models.Classification
}

// Decomposer breaks questions into atomic sub-questions.
type Decomposer struct {
	oracle provider.Provider
	opts   Options
}

// New creates a Decomposer over the given oracle.
func New(oracle provider.Provider, opts Options) *Decomposer {
	if opts.MaxSubQuestions <= 0 {
		opts.MaxSubQuestions = DefaultMaxSubQuestions
	}
	return &Decomposer{oracle: oracle, opts: opts}
}

// classificationResponse is the structured shape requested from the
// oracle for classification.
type classificationResponse struct {
	NeedsDecomposition bool   `json:"needs_decomposition"`
	Complexity         int    `json:"complexity"`
	QuestionType       string `json:"question_type"`
	Reasoning          string `json:"reasoning"`
}

// Classify judges whether a question is atomic or must be split.
// A caller-supplied classifier takes precedence over the oracle call.
// Failures degrade to the default classification; classification is
// never the reason a question fails to resolve.
func (d *Decomposer) Classify(ctx context.Context, question, contextText string) models.Classification {
	if d.opts.Classifier != nil {
		c, err := d.opts.Classifier(ctx, question, contextText)
		if err != nil {
			return defaultClassification()
		}
		return normalizeClassification(c)
	}

	resp, err := d.oracle.Complete(ctx, provider.Request{
		Messages:    classifyMessages(question, contextText),
		Temperature: 0,
		Structured:  true,
	})
	if err != nil || resp.JSON == nil {
		return defaultClassification()
	}

	var parsed classificationResponse
	if err := json.Unmarshal(resp.JSON, &parsed); err != nil {
		return defaultClassification()
	}

	return normalizeClassification(models.Classification{
		NeedsDecomposition: parsed.NeedsDecomposition,
		Complexity:         parsed.Complexity,
		QuestionType:       models.QuestionType(parsed.QuestionType),
		Reasoning:          parsed.Reasoning,
	})
}

// decompositionResponse is the structured shape requested from the
// oracle for decomposition.
type decompositionResponse struct {
	SubQuestions []struct {
		Question  string   `json:"question"`
		DependsOn []string `json:"depends_on"`
		Type      string   `json:"type"`
	} `json:"sub_questions"`
	SynthesisStrategy string `json:"synthesis_strategy"`
}

// Decompose produces the sub-question plan for a question.
// Decomposition failure never propagates as an error, only as a
// graceful degrade to a single atomic sub-question.
func (d *Decomposer) Decompose(ctx context.Context, question, contextText string) Plan {
	if !d.opts.Enabled {
		return atomicPlan(question, models.TypeFactual, models.Classification{
			NeedsDecomposition: false,
			Complexity:         1,
			QuestionType:       models.TypeFactual,
			Reasoning:          "decomposition disabled",
		})
	}

	classification := d.Classify(ctx, question, contextText)
	if !classification.NeedsDecomposition {
		return atomicPlan(question, classification.QuestionType, classification)
	}

	resp, err := d.oracle.Complete(ctx, provider.Request{
		Messages:    decomposeMessages(question, contextText, d.opts.PromptTemplate),
		Temperature: 0,
		Structured:  true,
	})
	if err != nil || resp.JSON == nil {
		return atomicPlan(question, classification.QuestionType, classification)
	}

	var parsed decompositionResponse
	if err := json.Unmarshal(resp.JSON, &parsed); err != nil || len(parsed.SubQuestions) == 0 {
		return atomicPlan(question, classification.QuestionType, classification)
	}

	if len(parsed.SubQuestions) > d.opts.MaxSubQuestions {
		parsed.SubQuestions = parsed.SubQuestions[:d.opts.MaxSubQuestions]
	}

	subs := make([]models.SubQuestion, len(parsed.SubQuestions))
	for i, sq := range parsed.SubQuestions {
		subs[i] = models.SubQuestion{
			ID:        fmt.Sprintf("sq%d", i+1),
			Question:  sq.Question,
			DependsOn: sq.DependsOn,
			Type:      models.ParseQuestionType(sq.Type),
			Index:     i,
		}
	}

	strategy := parsed.SynthesisStrategy
	if strategy == "" {
		strategy = defaultStrategy
	}

	return Plan{
		SubQuestions:      subs,
		SynthesisStrategy: strategy,
		Classification:    classification,
	}
}

// atomicPlan wraps a question as its own single sub-question.
func atomicPlan(question string, qt models.QuestionType, classification models.Classification) Plan {
	return Plan{
		SubQuestions: []models.SubQuestion{{
			ID:       "sq1",
			Question: question,
			Type:     qt,
			Index:    0,
		}},
		SynthesisStrategy: StrategyNone,
		Classification:    classification,
	}
}

func defaultClassification() models.Classification {
	return models.Classification{
		NeedsDecomposition: false,
		Complexity:         5,
		QuestionType:       models.TypeFactual,
	}
}

// normalizeClassification fills defaulted fields: complexity 5 when
// unset, factual when the type is unknown.
func normalizeClassification(c models.Classification) models.Classification {
	if c.Complexity <= 0 {
		c.Complexity = 5
	}
	if c.Complexity > 10 {
		c.Complexity = 10
	}
	if !c.QuestionType.Valid() {
		c.QuestionType = models.TypeFactual
	}
	return c
}
