package provider

import (
	"context"
	"strings"
	"testing"
)

func TestRegistryDefaults(t *testing.T) {
	names := Names()
	for _, want := range []string{"anthropic", "openai"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Names() = %v, missing %q", names, want)
		}
	}
}

func TestNewUnknownName(t *testing.T) {
	_, err := New("cohere", Settings{})
	if err == nil {
		t.Fatal("unknown provider name must error")
	}
	if !strings.Contains(err.Error(), "cohere") {
		t.Errorf("error should name the unknown provider: %v", err)
	}
	if !strings.Contains(err.Error(), "anthropic") {
		t.Errorf("error should list available providers: %v", err)
	}
}

func TestRegisterCustom(t *testing.T) {
	Register("echo", func(s Settings) (Provider, error) {
		return CompleterFunc(func(ctx context.Context, req Request) (Response, error) {
			return Response{Text: s.Model}, nil
		}), nil
	})

	p, err := New("echo", Settings{Model: "echo-1"})
	if err != nil {
		t.Fatalf("New(echo): %v", err)
	}
	resp, err := p.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != "echo-1" {
		t.Errorf("Text = %q, want settings model", resp.Text)
	}
}
