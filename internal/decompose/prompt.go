package decompose

import (
	"strings"

	"github.com/ShayCichocki/maker/internal/provider"
)

const classifySystemPrompt = `You judge whether a question can be answered in a single reasoning or lookup step, or must be split into smaller steps first.

Respond as JSON:
{"needs_decomposition": true|false, "complexity": 1-10, "question_type": "factual|comparative|multi_hop|aggregative|procedural|analytical", "reasoning": "<one sentence>"}`

const decomposeSystemPrompt = `You split a question into the smallest ordered list of atomic sub-questions, each answerable in a single reasoning or lookup step. List a sub-question's prerequisites in depends_on by position label (sq1, sq2, ...).

Respond as JSON:
{"sub_questions": [{"question": "...", "depends_on": [], "type": "factual|comparative|multi_hop|aggregative|procedural|analytical"}], "synthesis_strategy": "<short tag for how to merge the answers>"}`

func classifyMessages(question, contextText string) []provider.Message {
	return []provider.Message{
		{Role: provider.RoleSystem, Content: classifySystemPrompt},
		{Role: provider.RoleUser, Content: withContext(question, contextText)},
	}
}

func decomposeMessages(question, contextText, template string) []provider.Message {
	if template != "" {
		body := strings.NewReplacer(
			"{{question}}", question,
			"{{context}}", contextText,
		).Replace(template)
		return []provider.Message{{Role: provider.RoleUser, Content: body}}
	}

	return []provider.Message{
		{Role: provider.RoleSystem, Content: decomposeSystemPrompt},
		{Role: provider.RoleUser, Content: withContext(question, contextText)},
	}
}

func withContext(question, contextText string) string {
	if contextText == "" {
		return question
	}
	return "Background:\n" + contextText + "\n\nQuestion: " + question
}
