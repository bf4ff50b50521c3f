package provider

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls the first JSON object or array out of model output.
// Models often wrap JSON in prose or code fences, so this scans for the
// outermost braces rather than requiring a clean payload.
// Returns nil if no valid JSON is found.
func ExtractJSON(text string) json.RawMessage {
	if raw := extractDelimited(text, '{', '}'); raw != nil {
		return raw
	}
	return extractDelimited(text, '[', ']')
}

func extractDelimited(text string, open, close byte) json.RawMessage {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return nil
	}
	return json.RawMessage(candidate)
}
