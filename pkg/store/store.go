// Package store persists pipeline settings between sessions.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a settings key has no stored value.
var ErrNotFound = errors.New("setting not found")

// Recognized settings keys. The store accepts arbitrary keys; these are
// the ones the wiring reads.
const (
	KeyProvider    = "provider"
	KeyOpenAIKey   = "openai.api_key"
	KeyOpenAIModel = "openai.model"
	KeyGeminiKey   = "gemini.api_key"
	KeyGeminiModel = "gemini.model"
	KeyPhrased     = "response.phrased"
)

// Provider values for KeyProvider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// KnownKey reports whether the wiring reads the given settings key.
func KnownKey(key string) bool {
	switch key {
	case KeyProvider, KeyOpenAIKey, KeyOpenAIModel, KeyGeminiKey, KeyGeminiModel, KeyPhrased:
		return true
	}
	return false
}

// Settings is the key-value store behind runtime configuration.
type Settings interface {
	// Get returns the stored value for key.
	// Returns ErrNotFound if the key has no value.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all stored key-value pairs.
	List(ctx context.Context) (map[string]string, error)
}
