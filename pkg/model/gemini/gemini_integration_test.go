package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/relaykit/relaykit/pkg/model"
	"github.com/relaykit/relaykit/pkg/model/gemini"
	"github.com/relaykit/relaykit/pkg/tool"
)

func setupProvider(t *testing.T) *gemini.Provider {
	t.Helper()
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping: GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	p, err := gemini.New(ctx, apiKey, "")
	if err != nil {
		t.Fatalf("gemini.New: %v", err)
	}
	return p
}

// TestIntegrationGeminiName verifies the provider name.
func TestIntegrationGeminiName(t *testing.T) {
	p := setupProvider(t)
	if p.Name() != "gemini" {
		t.Errorf("Name() = %q, want %q", p.Name(), "gemini")
	}
}

// TestIntegrationGeminiResolveTools verifies a function-calling round trip.
func TestIntegrationGeminiResolveTools(t *testing.T) {
	p := setupProvider(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reqs, err := p.ResolveTools(ctx, model.ToolPrompt{
		System: "Call the tools needed to satisfy the request.",
		Prompt: "Show me my portfolio.",
		Tools: []tool.Descriptor{
			{Name: "getPortfolio", Description: "Returns the user's current holdings."},
		},
	})
	if err != nil {
		t.Fatalf("ResolveTools: %v", err)
	}
	if len(reqs) == 0 || reqs[0].Name != "getPortfolio" {
		t.Errorf("ResolveTools = %#v, want getPortfolio", reqs)
	}
}
