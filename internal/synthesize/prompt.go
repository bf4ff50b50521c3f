package synthesize

import (
	"fmt"
	"strings"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/pkg/models"
)

const synthesizeSystemPrompt = `You merge answers to sub-questions into one coherent answer to the original question. Use only the information in the sub-answers; do not invent facts.

Respond as JSON:
{"answer": "<final answer>", "confidence": "high|medium|low"}`

const languageInstruction = "Write the final answer in %s."

func (s *Synthesizer) messages(originalQuestion string, subResults []models.SubQuestionResult) []provider.Message {
	answers := formatAnswers(subResults)

	if s.opts.PromptTemplate != "" {
		body := strings.NewReplacer(
			"{{question}}", originalQuestion,
			"{{answers}}", answers,
			"{{language}}", s.opts.Language,
		).Replace(s.opts.PromptTemplate)
		return []provider.Message{{Role: provider.RoleUser, Content: body}}
	}

	system := synthesizeSystemPrompt
	if s.opts.Language != "" && s.opts.Language != "en" {
		system += "\n" + fmt.Sprintf(languageInstruction, s.opts.Language)
	}

	user := fmt.Sprintf("Original question: %s\n\nResolved sub-questions:\n%s", originalQuestion, answers)

	return []provider.Message{
		{Role: provider.RoleSystem, Content: system},
		{Role: provider.RoleUser, Content: user},
	}
}

// formatAnswers enumerates each sub-question/answer pair for the prompt.
func formatAnswers(subResults []models.SubQuestionResult) string {
	var b strings.Builder
	for i, sr := range subResults {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, sr.SubQuestion.Question, sr.Answer)
	}
	return b.String()
}
