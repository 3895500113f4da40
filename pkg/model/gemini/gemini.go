// Package gemini implements model.Provider using the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/model"
	"github.com/relaykit/relaykit/pkg/tool"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Provider talks to the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

var _ model.Provider = (*Provider)(nil)

// New creates a provider with the given API key. An empty modelName selects
// DefaultModel.
func New(ctx context.Context, apiKey, modelName string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Provider{client: client, model: modelName}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "gemini" }

// ResolveTools runs one function-calling round and maps the model's tool
// calls, in order, to requests.
func (p *Provider) ResolveTools(ctx context.Context, req model.ToolPrompt) ([]domain.ToolRequest, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: buildDeclarations(req.Tools)}},
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("generate content: no candidates")
	}

	var out []domain.ToolRequest
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.FunctionCall == nil {
			continue
		}
		out = append(out, domain.ToolRequest{
			Name: part.FunctionCall.Name,
			Args: part.FunctionCall.Args,
		})
	}
	return out, nil
}

// Phrase runs one plain-text completion.
func (p *Provider) Phrase(ctx context.Context, req model.PhrasePrompt) (string, error) {
	var config *genai.GenerateContentConfig
	if req.System != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: req.System}},
			},
		}
	}
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("generate content: no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("generate content: empty text")
	}
	return sb.String(), nil
}

func buildDeclarations(descs []tool.Descriptor) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(descs))
	for _, d := range descs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  buildSchema(d.Params),
		})
	}
	return decls
}

func buildSchema(p *tool.Params) *genai.Schema {
	schema := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{},
	}
	if p == nil {
		return schema
	}
	for _, f := range p.Fields {
		prop := &genai.Schema{
			Type:        schemaType(f.Type),
			Description: f.Description,
		}
		if len(f.Enum) > 0 {
			prop.Enum = f.Enum
		}
		schema.Properties[f.Name] = prop
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

func schemaType(t string) genai.Type {
	switch t {
	case tool.TypeNumber:
		return genai.TypeNumber
	case tool.TypeInteger:
		return genai.TypeInteger
	case tool.TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
