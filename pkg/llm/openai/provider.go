package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"document-bot-be/pkg/llm"

	"github.com/sashabaranov/go-openai"
)

// Provider calls the OpenAI chat completions API with a JSON-schema
// response format, so the model is constrained to the requested contract.
type Provider struct {
	client *openai.Client
	model  string
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = &Provider{}

func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) GenerateStructured(ctx context.Context, req llm.StructuredRequest) (*llm.StructuredResponse, error) {
	schemaBytes, err := json.Marshal(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal response schema: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: json.RawMessage(schemaBytes),
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &llm.StructuredResponse{
		Content: []byte(resp.Choices[0].Message.Content),
		Usage: &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
