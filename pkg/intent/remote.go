package intent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/model"
	"github.com/relaykit/relaykit/pkg/tool"
)

// ToolSource supplies the callable tool declarations. *tool.Registry
// satisfies it.
type ToolSource interface {
	List() []tool.Descriptor
}

const resolveInstructions = `You route user requests to tools. ` +
	`Call every tool that is needed to satisfy the request, in the order the work should happen. ` +
	`If no tool applies, call none.`

// Remote resolves intent with one function-calling round against a
// completion provider. Any transport or parse failure is reported as
// ErrResolverTransport; composing with a Fallback keeps the pipeline total.
type Remote struct {
	provider model.Provider
	tools    ToolSource
	log      *slog.Logger
}

var _ Resolver = (*Remote)(nil)

// NewRemote builds a resolver over provider. A nil log falls back to the
// default logger.
func NewRemote(provider model.Provider, tools ToolSource, log *slog.Logger) *Remote {
	if log == nil {
		log = slog.Default()
	}
	return &Remote{provider: provider, tools: tools, log: log}
}

// Resolve sends the prompt and the registry's declarations to the provider
// and maps the returned calls to requests, preserving provider order.
// Calls naming tools the registry does not know are dropped with a warning.
func (r *Remote) Resolve(ctx context.Context, prompt string) ([]domain.ToolRequest, error) {
	descs := r.tools.List()
	reqs, err := r.provider.ResolveTools(ctx, model.ToolPrompt{
		System: resolveInstructions,
		Prompt: prompt,
		Tools:  descs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResolverTransport, err)
	}

	known := make(map[string]bool, len(descs))
	for _, d := range descs {
		known[d.Name] = true
	}
	out := reqs[:0]
	for _, req := range reqs {
		if !known[req.Name] {
			r.log.Warn("Resolver returned unknown tool", "tool", req.Name, "provider", r.provider.Name())
			continue
		}
		out = append(out, req)
	}
	return out, nil
}
