package decompose

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ShayCichocki/maker/internal/provider"
	"github.com/ShayCichocki/maker/pkg/models"
)

// countingOracle wraps a fixed JSON response and counts calls.
type countingOracle struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (o *countingOracle) Complete(ctx context.Context, req provider.Request) (provider.Response, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	if o.err != nil {
		return provider.Response{}, o.err
	}
	return provider.Response{Text: o.text, JSON: []byte(o.text)}, nil
}

func (o *countingOracle) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func TestDecomposeDisabled(t *testing.T) {
	oracle := &countingOracle{text: `{}`}
	d := New(oracle, Options{Enabled: false})

	plan := d.Decompose(context.Background(), "What is the capital of France?", "")

	if oracle.count() != 0 {
		t.Errorf("disabled decomposition made %d oracle calls, want 0", oracle.count())
	}
	if len(plan.SubQuestions) != 1 {
		t.Fatalf("got %d sub-questions, want 1", len(plan.SubQuestions))
	}
	sq := plan.SubQuestions[0]
	if sq.ID != "sq1" || sq.Index != 0 || sq.Type != models.TypeFactual {
		t.Errorf("unexpected sub-question %+v", sq)
	}
	if sq.Question != "What is the capital of France?" {
		t.Errorf("sub-question must wrap the original text verbatim, got %q", sq.Question)
	}
	if plan.SynthesisStrategy != StrategyNone {
		t.Errorf("strategy = %q, want none", plan.SynthesisStrategy)
	}
	if plan.Classification.NeedsDecomposition {
		t.Error("synthetic classification must mark needsDecomposition false")
	}
}

func TestDecomposeAtomicClassification(t *testing.T) {
	oracle := &countingOracle{
		text: `{"needs_decomposition": false, "complexity": 2, "question_type": "comparative"}`,
	}
	d := New(oracle, Options{Enabled: true})

	plan := d.Decompose(context.Background(), "Is Paris bigger than Lyon?", "")

	if oracle.count() != 1 {
		t.Errorf("oracle calls = %d, want 1 (classification only)", oracle.count())
	}
	if len(plan.SubQuestions) != 1 {
		t.Fatalf("got %d sub-questions, want 1", len(plan.SubQuestions))
	}
	if plan.SubQuestions[0].Type != models.TypeComparative {
		t.Errorf("atomic plan should preserve the classified type, got %s", plan.SubQuestions[0].Type)
	}
	if plan.SynthesisStrategy != StrategyNone {
		t.Errorf("strategy = %q, want none", plan.SynthesisStrategy)
	}
}

func TestDecomposeSplits(t *testing.T) {
	classified := false
	oracle := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		var text string
		if !classified {
			classified = true
			text = `{"needs_decomposition": true, "complexity": 7, "question_type": "multi_hop"}`
		} else {
			text = `{
				"sub_questions": [
					{"question": "Who directed Alien?", "type": "factual"},
					{"question": "What year was that director born?", "depends_on": ["sq1"], "type": "factual"}
				],
				"synthesis_strategy": "chain"
			}`
		}
		return provider.Response{Text: text, JSON: []byte(text)}, nil
	})

	d := New(oracle, Options{Enabled: true})
	plan := d.Decompose(context.Background(), "When was the director of Alien born?", "")

	if len(plan.SubQuestions) != 2 {
		t.Fatalf("got %d sub-questions, want 2", len(plan.SubQuestions))
	}
	if plan.SubQuestions[0].ID != "sq1" || plan.SubQuestions[1].ID != "sq2" {
		t.Errorf("ids = %s, %s", plan.SubQuestions[0].ID, plan.SubQuestions[1].ID)
	}
	if plan.SubQuestions[1].Index != 1 {
		t.Errorf("second sub-question index = %d, want 1", plan.SubQuestions[1].Index)
	}
	if got := plan.SubQuestions[1].DependsOn; len(got) != 1 || got[0] != "sq1" {
		t.Errorf("dependencies = %v", got)
	}
	if plan.SynthesisStrategy != "chain" {
		t.Errorf("strategy = %q, want chain", plan.SynthesisStrategy)
	}
	if plan.Classification.Complexity != 7 {
		t.Errorf("classification complexity = %d, want 7", plan.Classification.Complexity)
	}
}

func TestDecomposeTruncatesPlan(t *testing.T) {
	classified := false
	oracle := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		var text string
		if !classified {
			classified = true
			text = `{"needs_decomposition": true, "question_type": "aggregative"}`
		} else {
			var sb strings.Builder
			sb.WriteString(`{"sub_questions": [`)
			for i := 0; i < 12; i++ {
				if i > 0 {
					sb.WriteString(",")
				}
				sb.WriteString(`{"question": "part", "type": "factual"}`)
			}
			sb.WriteString(`], "synthesis_strategy": "aggregate"}`)
			text = sb.String()
		}
		return provider.Response{Text: text, JSON: []byte(text)}, nil
	})

	d := New(oracle, Options{Enabled: true, MaxSubQuestions: 3})
	plan := d.Decompose(context.Background(), "q", "")

	if len(plan.SubQuestions) != 3 {
		t.Errorf("got %d sub-questions, want truncation to 3", len(plan.SubQuestions))
	}
}

func TestDecomposeEmptyPlanDegrades(t *testing.T) {
	classified := false
	oracle := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		var text string
		if !classified {
			classified = true
			text = `{"needs_decomposition": true, "question_type": "analytical"}`
		} else {
			text = `{"sub_questions": [], "synthesis_strategy": "whatever"}`
		}
		return provider.Response{Text: text, JSON: []byte(text)}, nil
	})

	d := New(oracle, Options{Enabled: true})
	plan := d.Decompose(context.Background(), "why?", "")

	if len(plan.SubQuestions) != 1 {
		t.Fatalf("empty decomposition must degrade to atomic, got %d", len(plan.SubQuestions))
	}
	if plan.SynthesisStrategy != StrategyNone {
		t.Errorf("strategy = %q, want none", plan.SynthesisStrategy)
	}
	if plan.SubQuestions[0].Type != models.TypeAnalytical {
		t.Errorf("type = %s, want classified analytical", plan.SubQuestions[0].Type)
	}
}

func TestDecomposeOracleFailureDegrades(t *testing.T) {
	oracle := &countingOracle{err: errors.New("service unavailable")}
	d := New(oracle, Options{Enabled: true})

	plan := d.Decompose(context.Background(), "q", "")
	if len(plan.SubQuestions) != 1 {
		t.Fatalf("oracle failure must degrade to atomic, got %d", len(plan.SubQuestions))
	}
	if plan.Classification.Complexity != 5 || plan.Classification.QuestionType != models.TypeFactual {
		t.Errorf("expected default classification, got %+v", plan.Classification)
	}
}

func TestClassifyDefaults(t *testing.T) {
	oracle := &countingOracle{text: `{}`}
	d := New(oracle, Options{Enabled: true})

	c := d.Classify(context.Background(), "q", "")
	if c.NeedsDecomposition {
		t.Error("missing needs_decomposition should default false")
	}
	if c.Complexity != 5 {
		t.Errorf("missing complexity should default 5, got %d", c.Complexity)
	}
	if c.QuestionType != models.TypeFactual {
		t.Errorf("missing type should default factual, got %s", c.QuestionType)
	}
}

func TestClassifyCustomClassifier(t *testing.T) {
	oracle := &countingOracle{text: `{}`}
	d := New(oracle, Options{
		Enabled: true,
		Classifier: func(ctx context.Context, question, contextText string) (models.Classification, error) {
			return models.Classification{NeedsDecomposition: false, Complexity: 1, QuestionType: models.TypeProcedural}, nil
		},
	})

	c := d.Classify(context.Background(), "how do I boil an egg?", "")
	if oracle.count() != 0 {
		t.Errorf("custom classifier must bypass the oracle, %d calls", oracle.count())
	}
	if c.QuestionType != models.TypeProcedural {
		t.Errorf("QuestionType = %s", c.QuestionType)
	}
}

func TestDecomposeCustomTemplate(t *testing.T) {
	var captured string
	classified := false
	oracle := provider.CompleterFunc(func(ctx context.Context, req provider.Request) (provider.Response, error) {
		var text string
		if !classified {
			classified = true
			text = `{"needs_decomposition": true}`
		} else {
			captured = req.Messages[len(req.Messages)-1].Content
			text = `{"sub_questions": [{"question": "a", "type": "factual"}], "synthesis_strategy": "s"}`
		}
		return provider.Response{Text: text, JSON: []byte(text)}, nil
	})

	d := New(oracle, Options{
		Enabled:        true,
		PromptTemplate: "Split this: {{question}} using {{context}}",
	})
	d.Decompose(context.Background(), "the question", "the background")

	if captured != "Split this: the question using the background" {
		t.Errorf("template substitution broken: %q", captured)
	}
}
