package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Settings carries provider construction options common to all backends.
type Settings struct {
	// Model names the model to sample from. Empty uses the backend default.
	Model string
	// APIKey is the credential. Empty falls back to the backend's
	// environment variable.
	APIKey string
	// BaseURL overrides the API endpoint (proxies, compatible APIs).
	BaseURL string
	// UseAWSBedrock routes Anthropic calls through AWS Bedrock.
	UseAWSBedrock bool
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name.
	AWSProfile string
}

// Factory constructs a provider from settings.
type Factory func(Settings) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register associates a provider name with a factory.
// Safe to call concurrently.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New resolves a provider name into a concrete capability handle.
// Unknown names are a configuration error.
func New(name string, s Settings) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %v)", name, Names())
	}
	return f(s)
}

// Names returns all registered provider names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("anthropic", func(s Settings) (Provider, error) { return NewAnthropic(s) })
	Register("openai", func(s Settings) (Provider, error) { return NewOpenAI(s) })
}
