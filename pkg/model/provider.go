// Package model defines the completion provider interface the pipeline
// talks to. Concrete providers live in subpackages.
package model

import (
	"context"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/tool"
)

// ToolPrompt is one function-calling round: the user prompt plus the
// declarations of every callable tool.
type ToolPrompt struct {
	System string
	Prompt string
	Tools  []tool.Descriptor
}

// PhrasePrompt is one plain-text completion round, used to phrase the
// response summary.
type PhrasePrompt struct {
	System string
	Prompt string
}

// Provider is a completion backend capable of function calling. Both
// operations are single round trips; the pipeline never holds a
// conversation with the provider.
type Provider interface {
	// Name identifies the provider, e.g. "openai".
	Name() string
	// ResolveTools asks the model which tools to call for the prompt.
	// The returned requests preserve the model's call order.
	ResolveTools(ctx context.Context, req ToolPrompt) ([]domain.ToolRequest, error)
	// Phrase produces one plain-text completion.
	Phrase(ctx context.Context, req PhrasePrompt) (string, error)
}
