package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
provider:
  name: openai
  model: gpt-4o
voting:
  k: 5
  max_votes: 40
decomposition:
  enabled: false
synthesis:
  language: fr
red_flag:
  min_chars: 10
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Provider.Name != "openai" {
		t.Errorf("provider.name = %q", cfg.Provider.Name)
	}
	if cfg.Provider.Model != "gpt-4o" {
		t.Errorf("provider.model = %q", cfg.Provider.Model)
	}
	if cfg.Voting.K != 5 || cfg.Voting.MaxVotes != 40 {
		t.Errorf("voting = %+v", cfg.Voting)
	}
	if cfg.Decomposition.Enabled {
		t.Error("decomposition should be disabled")
	}
	if cfg.Synthesis.Language != "fr" {
		t.Errorf("synthesis.language = %q", cfg.Synthesis.Language)
	}
	if cfg.RedFlag.MinChars != 10 {
		t.Errorf("red_flag.min_chars = %d", cfg.RedFlag.MinChars)
	}
}

func TestLoadFromPathDefaults(t *testing.T) {
	path := writeConfig(t, "provider:\n  name: anthropic\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Voting.K != 3 {
		t.Errorf("default voting.k = %d, want 3", cfg.Voting.K)
	}
	if cfg.Voting.MaxVotes != 100 {
		t.Errorf("default voting.max_votes = %d, want 100", cfg.Voting.MaxVotes)
	}
	if !cfg.Decomposition.Enabled {
		t.Error("decomposition should default to enabled")
	}
	if cfg.Decomposition.MaxSubQuestions != 8 {
		t.Errorf("default max_sub_questions = %d, want 8", cfg.Decomposition.MaxSubQuestions)
	}
	if !cfg.Synthesis.Enabled {
		t.Error("synthesis should default to enabled")
	}
	if cfg.RedFlag.MinChars != 5 || cfg.RedFlag.MaxTokens != 750 {
		t.Errorf("red_flag defaults = %+v", cfg.RedFlag)
	}
}

func TestLoadFromPathExpandsAPIKey(t *testing.T) {
	t.Setenv("MAKER_TEST_SECRET", "sk-test-123")
	path := writeConfig(t, "provider:\n  api_key: ${MAKER_TEST_SECRET}\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Provider.APIKey != "sk-test-123" {
		t.Errorf("api_key = %q, want expanded value", cfg.Provider.APIKey)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing config file must error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	// Point the user config at an empty directory so only defaults and
	// environment variables apply.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MAKER_VOTING_K", "7")
	t.Setenv("MAKER_PROVIDER_NAME", "openai")
	t.Setenv("MAKER_API_KEY", "sk-env-456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Voting.K != 7 {
		t.Errorf("voting.k = %d, want env override 7", cfg.Voting.K)
	}
	if cfg.Provider.Name != "openai" {
		t.Errorf("provider.name = %q, want env override openai", cfg.Provider.Name)
	}
	if cfg.Provider.APIKey != "sk-env-456" {
		t.Errorf("api_key = %q, want env override", cfg.Provider.APIKey)
	}
	if cfg.Voting.MaxVotes != 100 {
		t.Errorf("voting.max_votes = %d, untouched keys keep defaults", cfg.Voting.MaxVotes)
	}
}

func TestGetUserConfigPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "maker", "config.yaml")
	if got := GetUserConfigPath(); got != want {
		t.Errorf("GetUserConfigPath() = %q, want %q", got, want)
	}
}
