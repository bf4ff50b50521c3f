package redflag

import (
	"strings"
	"testing"
)

func TestCheckBuiltins(t *testing.T) {
	f := New(Options{})

	tests := []struct {
		name       string
		answer     string
		parseOK    bool
		wantFlag   bool
		wantReason Reason
	}{
		{
			name:     "normal answer passes",
			answer:   "Paris is the capital of France.",
			parseOK:  true,
			wantFlag: false,
		},
		{
			name:       "empty answer",
			answer:     "",
			parseOK:    true,
			wantFlag:   true,
			wantReason: ReasonTooShort,
		},
		{
			name:       "whitespace only",
			answer:     "   \t\n  ",
			parseOK:    true,
			wantFlag:   true,
			wantReason: ReasonTooShort,
		},
		{
			name:     "exactly min chars passes",
			answer:   "12345",
			parseOK:  true,
			wantFlag: false,
		},
		{
			name:       "one under min chars",
			answer:     "1234",
			parseOK:    true,
			wantFlag:   true,
			wantReason: ReasonTooShort,
		},
		{
			name:     "exactly max tokens passes",
			answer:   strings.Repeat("a", 3000), // 3000 chars ≈ 750 tokens
			parseOK:  true,
			wantFlag: false,
		},
		{
			name:       "one char over max tokens",
			answer:     strings.Repeat("a", 3001),
			parseOK:    true,
			wantFlag:   true,
			wantReason: ReasonTooLong,
		},
		{
			name:       "parse failure flags regardless of length",
			answer:     "a perfectly reasonable answer",
			parseOK:    false,
			wantFlag:   true,
			wantReason: ReasonInvalidFormat,
		},
		{
			name:       "too-short wins over parse failure",
			answer:     "",
			parseOK:    false,
			wantFlag:   true,
			wantReason: ReasonTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Check(tt.answer, tt.parseOK)
			if got.Flagged != tt.wantFlag {
				t.Fatalf("Flagged = %t, want %t", got.Flagged, tt.wantFlag)
			}
			if tt.wantFlag && got.Reason != tt.wantReason {
				t.Errorf("Reason = %s, want %s", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestCheckCustomValidator(t *testing.T) {
	f := New(Options{
		Custom: func(answer string) (Reason, bool) {
			if strings.Contains(answer, "maybe") {
				return Reason("hedged_answer"), true
			}
			return "", false
		},
	})

	got := f.Check("it is maybe Paris", true)
	if !got.Flagged || got.Reason != "hedged_answer" {
		t.Errorf("custom validator should flag, got %+v", got)
	}

	// Built-in checks fire before the custom validator.
	got = f.Check("mayb", false)
	if got.Reason != ReasonTooShort {
		t.Errorf("built-ins should short-circuit, got %s", got.Reason)
	}

	if got := f.Check("definitely Paris", true); got.Flagged {
		t.Errorf("clean answer should pass, got %+v", got)
	}
}

func TestCheckMany(t *testing.T) {
	f := New(Options{})

	results := f.CheckMany([]string{"Paris is lovely", "", "London calling"}, true)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Flagged || results[2].Flagged {
		t.Error("valid answers should not be flagged")
	}
	if !results[1].Flagged {
		t.Error("empty answer should be flagged")
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{},
		{Flagged: true, Reason: ReasonTooShort},
		{Flagged: true, Reason: ReasonTooShort},
		{Flagged: true, Reason: ReasonInvalidFormat},
		{},
	}

	s := Summarize(results)
	if s.Total != 5 || s.Flagged != 3 || s.Valid != 2 {
		t.Errorf("got total=%d flagged=%d valid=%d", s.Total, s.Flagged, s.Valid)
	}
	if s.ByReason[ReasonTooShort] != 2 {
		t.Errorf("too_short count = %d, want 2", s.ByReason[ReasonTooShort])
	}
	if s.ByReason[ReasonInvalidFormat] != 1 {
		t.Errorf("invalid_format count = %d, want 1", s.ByReason[ReasonInvalidFormat])
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{3000, 750},
		{3001, 751},
	}
	for _, tt := range tests {
		if got := EstimateTokens(strings.Repeat("x", tt.length)); got != tt.want {
			t.Errorf("EstimateTokens(len %d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}
