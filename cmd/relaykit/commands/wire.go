package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaykit/relaykit/pkg/intent"
	"github.com/relaykit/relaykit/pkg/model"
	"github.com/relaykit/relaykit/pkg/model/gemini"
	"github.com/relaykit/relaykit/pkg/model/openai"
	"github.com/relaykit/relaykit/pkg/runner"
	"github.com/relaykit/relaykit/pkg/server"
	"github.com/relaykit/relaykit/pkg/store"
	"github.com/relaykit/relaykit/pkg/tool"
)

// pipeline is the resolver and phraser a runner gets wired with, plus the
// mode the server reports for it.
type pipeline struct {
	resolver intent.Resolver
	phraser  runner.Phraser
	mode     server.Mode
}

// buildPipeline assembles the resolution pipeline from the stored
// credentials. With no API key the pipeline is fully local. With one, a
// remote resolver is layered over the local rules as fallback, and response
// phrasing is enabled unless opted out.
func buildPipeline(ctx context.Context, reg *tool.Registry, rules []intent.Rule, settings store.Settings, log *slog.Logger) (pipeline, error) {
	local, err := intent.NewLocal(rules)
	if err != nil {
		return pipeline{}, fmt.Errorf("compiling rules: %w", err)
	}

	creds, err := store.ResolveCredentials(ctx, settings)
	if err != nil {
		return pipeline{}, err
	}
	pl := pipeline{resolver: local, mode: server.Mode{Name: "local"}}
	if !creds.Remote() {
		return pl, nil
	}

	var provider model.Provider
	modelName := creds.Model
	switch creds.Provider {
	case store.ProviderOpenAI:
		provider = openai.New(creds.APIKey, openai.WithModel(creds.Model))
		if modelName == "" {
			modelName = openai.DefaultModel
		}
	case store.ProviderGemini:
		g, err := gemini.New(ctx, creds.APIKey, creds.Model)
		if err != nil {
			return pipeline{}, fmt.Errorf("initializing gemini: %w", err)
		}
		provider = g
		if modelName == "" {
			modelName = gemini.DefaultModel
		}
	default:
		return pipeline{}, fmt.Errorf("unsupported provider %q", creds.Provider)
	}

	pl.resolver = intent.NewFallback(intent.NewRemote(provider, reg, log), local, log)
	pl.mode = server.Mode{Name: "remote", Provider: provider.Name(), Model: modelName}
	if creds.Phrased {
		pl.phraser = runner.ModelPhraser{Provider: provider}
	}
	return pl, nil
}
