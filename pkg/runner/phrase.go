package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/model"
)

// Phraser turns a run's outcomes into the response text.
type Phraser interface {
	Phrase(ctx context.Context, prompt string, outcomes []domain.ToolOutcome) (string, error)
}

const phraseInstructions = "You are the voice of a tool-running assistant. " +
	"Summarize what just happened for the user in one or two short sentences. " +
	"Mention concrete values from the tool results where useful. " +
	"Report failures plainly. Never invent results."

// ModelPhraser asks a completion provider to phrase the summary. Only the
// recorded outcomes are sent to the model; nothing here executes a tool.
type ModelPhraser struct {
	Provider model.Provider
}

var _ Phraser = ModelPhraser{}

func (p ModelPhraser) Phrase(ctx context.Context, prompt string, outcomes []domain.ToolOutcome) (string, error) {
	var sb strings.Builder
	sb.WriteString("User request: ")
	sb.WriteString(prompt)
	sb.WriteString("\n\nTool outcomes:\n")
	for _, o := range outcomes {
		if o.Failed() {
			fmt.Fprintf(&sb, "- %s failed: %v\n", o.Name, o.Err)
			continue
		}
		b, err := json.Marshal(o.Result)
		if err != nil {
			fmt.Fprintf(&sb, "- %s returned an unserializable result\n", o.Name)
			continue
		}
		fmt.Fprintf(&sb, "- %s returned: %s\n", o.Name, b)
	}

	text, err := p.Provider.Phrase(ctx, model.PhrasePrompt{
		System: phraseInstructions,
		Prompt: sb.String(),
	})
	if err != nil {
		return "", fmt.Errorf("phrasing response: %w", err)
	}
	return text, nil
}
