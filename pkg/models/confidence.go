package models

// Confidence represents self-reported answer confidence from the oracle.
type Confidence string

const (
	// ConfidenceHigh indicates strong confidence in an answer.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium indicates moderate confidence in an answer.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow indicates weak confidence in an answer.
	ConfidenceLow Confidence = "low"
)

// Valid returns true if the confidence is a known value.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// Rank returns the confidence as an ordinal: high=3, medium=2, low=1.
// Unknown values rank 0.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// MinConfidence returns the lower of two confidence levels.
func MinConfidence(a, b Confidence) Confidence {
	if a.Rank() <= b.Rank() {
		return a
	}
	return b
}

// ParseConfidence maps a raw string to a Confidence, falling back to
// the given default for unknown values.
func ParseConfidence(s string, fallback Confidence) Confidence {
	c := Confidence(s)
	if c.Valid() {
		return c
	}
	return fallback
}
