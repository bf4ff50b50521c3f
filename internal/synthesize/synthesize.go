// Package synthesize merges resolved sub-question answers into one
// coherent final answer.
package synthesize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/pkg/models"
)

// FallbackAnswer is returned when there is nothing to synthesize from.
const FallbackAnswer = "Unable to determine answer."

// Options configures a Synthesizer.
type Options struct {
	// Enabled gates the oracle-backed merge. When false, the first
	// sub-result passes through unchanged.
	Enabled bool
	// Language is the target answer language. Empty or "en" uses the
	// default prompt.
	Language string
	// PromptTemplate overrides the synthesis prompt; {{question}},
	// {{answers}} and {{language}} are substituted.
	PromptTemplate string
}

// Synthesizer merges sub-question results via one oracle call.
type Synthesizer struct {
	oracle provider.Provider
	opts   Options
}

// New creates a Synthesizer over the given oracle.
func New(oracle provider.Provider, opts Options) *Synthesizer {
	return &Synthesizer{oracle: oracle, opts: opts}
}

// synthesisResponse is the structured shape requested from the oracle.
type synthesisResponse struct {
	Answer     string `json:"answer"`
	Confidence string `json:"confidence"`
}

// Synthesize merges sub-results into one final answer and confidence.
// With zero sub-results it returns a fixed fallback; with one, or when
// disabled, it passes that result through with no oracle call.
func (s *Synthesizer) Synthesize(ctx context.Context, originalQuestion string, subResults []models.SubQuestionResult) (string, models.Confidence) {
	if len(subResults) == 0 {
		return FallbackAnswer, models.ConfidenceLow
	}
	if len(subResults) == 1 || !s.opts.Enabled {
		return subResults[0].Answer, subResults[0].Confidence
	}

	synthConf := models.ConfidenceMedium
	answer := ""

	resp, err := s.oracle.Complete(ctx, provider.Request{
		Messages:    s.messages(originalQuestion, subResults),
		Temperature: 0,
		Structured:  true,
	})
	if err == nil && resp.JSON != nil {
		var parsed synthesisResponse
		if json.Unmarshal(resp.JSON, &parsed) == nil {
			answer = strings.TrimSpace(parsed.Answer)
			synthConf = models.ParseConfidence(parsed.Confidence, models.ConfidenceMedium)
		}
	}

	// Synthesis must not lose resolved answers: an empty merge falls
	// back to concatenating the sub-answers in original order.
	if answer == "" {
		answer = joinAnswers(subResults)
	}

	return answer, rollupConfidence(synthConf, subResults)
}

// joinAnswers concatenates all non-empty trimmed sub-answers with a
// single space, in original order.
func joinAnswers(subResults []models.SubQuestionResult) string {
	var parts []string
	for _, sr := range subResults {
		if a := strings.TrimSpace(sr.Answer); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

// rollupConfidence combines the synthesis call's own confidence with a
// conservative rollup over the sub-results: any low sub-result drags
// the whole answer to low; a medium-heavy set caps it at medium.
func rollupConfidence(synthConf models.Confidence, subResults []models.SubQuestionResult) models.Confidence {
	var mediums, highs int
	for _, sr := range subResults {
		switch sr.Confidence {
		case models.ConfidenceLow:
			return models.ConfidenceLow
		case models.ConfidenceMedium:
			mediums++
		case models.ConfidenceHigh:
			highs++
		}
	}

	rolled := models.ConfidenceHigh
	if mediums > highs {
		rolled = models.ConfidenceMedium
	}
	return models.MinConfidence(synthConf, rolled)
}
