package store

import (
	"context"
	"fmt"
	"os"
)

// Credentials is the resolved provider configuration for one wiring pass.
// A zero Provider means local mode: no remote resolution, no phrasing.
type Credentials struct {
	Provider string
	APIKey   string
	Model    string
	Phrased  bool
}

// Remote reports whether a provider key is available.
func (c Credentials) Remote() bool { return c.APIKey != "" }

// ResolveCredentials decides the active provider from the environment and
// the settings store. Environment keys win over stored ones; an explicit
// provider setting wins over key-presence inference. With no key anywhere
// the pipeline stays in local mode.
func ResolveCredentials(ctx context.Context, s Settings) (Credentials, error) {
	values := map[string]string{}
	if s != nil {
		stored, err := s.List(ctx)
		if err != nil {
			return Credentials{}, fmt.Errorf("listing settings: %w", err)
		}
		values = stored
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		openaiKey = values[KeyOpenAIKey]
	}
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		geminiKey = values[KeyGeminiKey]
	}

	c := Credentials{Phrased: values[KeyPhrased] != "false"}

	provider := values[KeyProvider]
	if provider == "" {
		switch {
		case openaiKey != "":
			provider = ProviderOpenAI
		case geminiKey != "":
			provider = ProviderGemini
		}
	}
	switch provider {
	case ProviderOpenAI:
		c.Provider, c.APIKey, c.Model = ProviderOpenAI, openaiKey, values[KeyOpenAIModel]
	case ProviderGemini:
		c.Provider, c.APIKey, c.Model = ProviderGemini, geminiKey, values[KeyGeminiModel]
	case "":
	default:
		return Credentials{}, fmt.Errorf("unknown provider %q", provider)
	}

	if c.APIKey == "" {
		// A provider selection without a key still means local mode.
		c.Provider, c.Model = "", ""
	}
	return c, nil
}
