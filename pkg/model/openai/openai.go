// Package openai implements model.Provider over the OpenAI chat
// completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/relaykit/relaykit/pkg/domain"
	"github.com/relaykit/relaykit/pkg/model"
	"github.com/relaykit/relaykit/pkg/tool"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Provider talks to the OpenAI chat completions API.
type Provider struct {
	client openai.Client
	model  string
}

var _ model.Provider = (*Provider)(nil)

// Option configures the provider.
type Option func(*config)

type config struct {
	model   string
	baseURL string
}

// WithModel overrides DefaultModel.
func WithModel(m string) Option {
	return func(c *config) {
		if m != "" {
			c.model = m
		}
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// New creates a provider with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	cfg := config{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}
	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	return &Provider{client: openai.NewClient(clientOpts...), model: cfg.model}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "openai" }

// ResolveTools runs one function-calling round and maps the model's tool
// calls, in order, to requests.
func (p *Provider) ResolveTools(ctx context.Context, req model.ToolPrompt) ([]domain.ToolRequest, error) {
	params := openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt("auto"),
		},
	}
	for _, d := range req.Tools {
		params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        d.Name,
				Description: param.NewOpt(d.Description),
				Parameters:  functionParameters(d.Params),
			},
		})
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("chat completion refused: %s", choice.Message.Refusal)
	}

	var out []domain.ToolRequest
	for _, call := range choice.Message.ToolCalls {
		args, err := model.UnmarshalArgs(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("tool call %s arguments: %w", call.Function.Name, err)
		}
		out = append(out, domain.ToolRequest{Name: call.Function.Name, Args: args})
	}
	return out, nil
}

// Phrase runs one plain-text completion.
func (p *Provider) Phrase(ctx context.Context, req model.PhrasePrompt) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("chat completion: empty content")
	}
	return content, nil
}

// functionParameters renders a declaration to the loosely-typed map the SDK
// expects, going through the JSON schema form.
func functionParameters(p *tool.Params) openai.FunctionParameters {
	b, err := json.Marshal(p.JSONSchema())
	if err != nil {
		return nil
	}
	var out openai.FunctionParameters
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
