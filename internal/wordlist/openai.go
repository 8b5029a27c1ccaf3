package wordlist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAIGenerator generates word lists with an OpenAI chat model constrained
// by a strict JSON schema.
type OpenAIGenerator struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIGenerator creates a new OpenAI backed generator
func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// Generate asks the chat model for {"words": [...]} and returns the array
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write vocabulary lists for young children learning Mandarin Chinese. Use simplified characters only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Prompt(req),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "word_list",
				Schema: wordListDefinition(),
				Strict: true,
			},
		},
		Temperature: 0.7,
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var envelope struct {
		Words json.RawMessage `json:"words"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	if len(envelope.Words) == 0 {
		return nil, ErrEmptyResponse
	}
	return envelope.Words, nil
}

// Name returns the generator name
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func wordListDefinition() *jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(wordFields))
	for _, f := range wordFields {
		props[f] = jsonschema.Definition{Type: jsonschema.String}
	}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"words": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type:                 jsonschema.Object,
					Properties:           props,
					Required:             wordFields,
					AdditionalProperties: false,
				},
			},
		},
		Required:             []string{"words"},
		AdditionalProperties: false,
	}
}
