package wordlist

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is fast and cheap enough for five words.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator generates word lists with the Gemini API using a JSON
// response schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for the given API key and model
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate asks Gemini for the word array
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   wordListSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(req)), cfg)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(text), nil
}

// Name returns the generator name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

func wordListSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(wordFields))
	for _, f := range wordFields {
		props[f] = &genai.Schema{Type: genai.TypeString}
	}
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   wordFields,
		},
	}
}
