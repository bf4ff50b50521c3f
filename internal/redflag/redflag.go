// Package redflag implements the admission filter that rejects oracle
// samples before they can enter a vote tally.
package redflag

import "strings"

// Reason identifies why a sample was rejected.
type Reason string

const (
	// ReasonTooShort flags empty or sub-minimum answers.
	ReasonTooShort Reason = "response_too_short"
	// ReasonTooLong flags answers over the token estimate ceiling.
	ReasonTooLong Reason = "response_too_long"
	// ReasonInvalidFormat flags answers whose structured response
	// could not be parsed.
	ReasonInvalidFormat Reason = "invalid_format"
)

const (
	// DefaultMinChars is the minimum trimmed answer length.
	DefaultMinChars = 5
	// DefaultMaxTokens is the maximum estimated token count.
	DefaultMaxTokens = 750
	// charsPerToken is the fixed length-to-token approximation.
	// 3000 chars estimate to exactly 750 tokens and pass; 3001 fail.
	charsPerToken = 4
)

// Result is the outcome of checking one sample.
type Result struct {
	// Flagged indicates the sample was rejected.
	Flagged bool
	// Reason identifies the first check that fired.
	Reason Reason
}

// Validator is an optional pluggable check. It runs only when none of
// the built-in checks fired, and may flag with an arbitrary reason.
type Validator func(answer string) (Reason, bool)

// Filter judges single oracle samples as admissible or rejected.
// The zero value is not usable; construct with New.
type Filter struct {
	minChars  int
	maxTokens int
	custom    Validator
}

// Options configures a Filter. Zero fields take defaults.
type Options struct {
	MinChars  int
	MaxTokens int
	Custom    Validator
}

// New creates an admission filter.
func New(opts Options) *Filter {
	f := &Filter{
		minChars:  opts.MinChars,
		maxTokens: opts.MaxTokens,
		custom:    opts.Custom,
	}
	if f.minChars <= 0 {
		f.minChars = DefaultMinChars
	}
	if f.maxTokens <= 0 {
		f.maxTokens = DefaultMaxTokens
	}
	return f
}

// EstimateTokens approximates the token count of a trimmed answer at
// four characters per token, rounding up.
func EstimateTokens(trimmed string) int {
	return (len(trimmed) + charsPerToken - 1) / charsPerToken
}

// Check judges one sample. Checks apply in fixed priority order and
// short-circuit at the first match: too short, too long, parse failure,
// then the custom validator.
func (f *Filter) Check(answer string, parseOK bool) Result {
	trimmed := strings.TrimSpace(answer)

	if len(trimmed) < f.minChars {
		return Result{Flagged: true, Reason: ReasonTooShort}
	}
	if EstimateTokens(trimmed) > f.maxTokens {
		return Result{Flagged: true, Reason: ReasonTooLong}
	}
	if !parseOK {
		return Result{Flagged: true, Reason: ReasonInvalidFormat}
	}
	if f.custom != nil {
		if reason, flagged := f.custom(answer); flagged {
			return Result{Flagged: true, Reason: reason}
		}
	}
	return Result{}
}

// CheckMany applies Check to each answer with a shared parse-success flag.
func (f *Filter) CheckMany(answers []string, parseOK bool) []Result {
	results := make([]Result, len(answers))
	for i, a := range answers {
		results[i] = f.Check(a, parseOK)
	}
	return results
}

// Stats aggregates a list of prior check results.
type Stats struct {
	Total    int
	Flagged  int
	Valid    int
	ByReason map[Reason]int
}

// Summarize aggregates results into total/flagged/valid counts and a
// per-reason histogram.
func Summarize(results []Result) Stats {
	s := Stats{
		Total:    len(results),
		ByReason: make(map[Reason]int),
	}
	for _, r := range results {
		if r.Flagged {
			s.Flagged++
			s.ByReason[r.Reason]++
		} else {
			s.Valid++
		}
	}
	return s
}
