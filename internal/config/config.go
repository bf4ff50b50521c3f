// Package config handles configuration loading and management for maker.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for maker.
type Config struct {
	Provider      ProviderConfig      `mapstructure:"provider" yaml:"provider"`
	Voting        VotingConfig        `mapstructure:"voting" yaml:"voting"`
	Decomposition DecompositionConfig `mapstructure:"decomposition" yaml:"decomposition"`
	Synthesis     SynthesisConfig     `mapstructure:"synthesis" yaml:"synthesis"`
	RedFlag       RedFlagConfig       `mapstructure:"red_flag" yaml:"red_flag"`
	History       HistoryConfig       `mapstructure:"history" yaml:"history"`
}

// ProviderConfig selects and configures the oracle backend.
type ProviderConfig struct {
	// Name is the registered provider name (anthropic, openai).
	Name string `mapstructure:"name" yaml:"name"`
	// Model names the model to sample from.
	Model string `mapstructure:"model" yaml:"model"`
	// APIKey is the credential; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// BaseURL overrides the API endpoint.
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	// UseAWSBedrock routes Anthropic calls through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock" yaml:"use_aws_bedrock,omitempty"`
	// AWSRegion is the Bedrock region.
	AWSRegion string `mapstructure:"aws_region" yaml:"aws_region,omitempty"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile" yaml:"aws_profile,omitempty"`
}

// VotingConfig holds consensus engine settings.
type VotingConfig struct {
	// K is the required lead margin for consensus.
	K int `mapstructure:"k" yaml:"k"`
	// MaxVotes is the per-sub-question safety cutoff.
	MaxVotes int `mapstructure:"max_votes" yaml:"max_votes"`
}

// DecompositionConfig holds classifier/decomposer settings.
type DecompositionConfig struct {
	// Enabled gates decomposition.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// MaxSubQuestions caps the plan length.
	MaxSubQuestions int `mapstructure:"max_sub_questions" yaml:"max_sub_questions"`
}

// SynthesisConfig holds answer merge settings.
type SynthesisConfig struct {
	// Enabled gates the oracle-backed merge step.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Language is the target answer language.
	Language string `mapstructure:"language" yaml:"language,omitempty"`
}

// RedFlagConfig holds admission filter thresholds.
type RedFlagConfig struct {
	// MinChars is the minimum trimmed answer length.
	MinChars int `mapstructure:"min_chars" yaml:"min_chars"`
	// MaxTokens is the maximum estimated token count.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// HistoryConfig holds the optional local answer log settings.
type HistoryConfig struct {
	// Path is the sqlite database file. Empty disables the log.
	Path string `mapstructure:"path" yaml:"path,omitempty"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, OPENAI_API_KEY, MAKER_*)
// 2. Project config (.maker.yaml in current directory or parent)
// 3. User config (~/.config/maker/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Nested keys map to underscored variables: voting.k -> MAKER_VOTING_K.
	v.SetEnvPrefix("MAKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("provider.api_key", "MAKER_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Provider.APIKey = expandEnv(cfg.Provider.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Provider.APIKey = expandEnv(cfg.Provider.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("provider.name", cfg.Provider.Name)
	v.Set("provider.model", cfg.Provider.Model)
	v.Set("provider.api_key", cfg.Provider.APIKey)
	v.Set("voting.k", cfg.Voting.K)
	v.Set("voting.max_votes", cfg.Voting.MaxVotes)
	v.Set("decomposition.enabled", cfg.Decomposition.Enabled)
	v.Set("decomposition.max_sub_questions", cfg.Decomposition.MaxSubQuestions)
	v.Set("synthesis.enabled", cfg.Synthesis.Enabled)
	v.Set("synthesis.language", cfg.Synthesis.Language)
	v.Set("red_flag.min_chars", cfg.RedFlag.MinChars)
	v.Set("red_flag.max_tokens", cfg.RedFlag.MaxTokens)
	v.Set("history.path", cfg.History.Path)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", "anthropic")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.api_key", "")

	v.SetDefault("voting.k", 3)
	v.SetDefault("voting.max_votes", 100)

	v.SetDefault("decomposition.enabled", true)
	v.SetDefault("decomposition.max_sub_questions", 8)

	v.SetDefault("synthesis.enabled", true)
	v.SetDefault("synthesis.language", "")

	v.SetDefault("red_flag.min_chars", 5)
	v.SetDefault("red_flag.max_tokens", 750)

	v.SetDefault("history.path", "")
}

// getUserConfigDir returns the XDG config directory for maker.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "maker")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "maker")
	}
	return filepath.Join(home, ".config", "maker")
}

// findProjectConfig searches for .maker.yaml in the current directory
// and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".maker.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}
