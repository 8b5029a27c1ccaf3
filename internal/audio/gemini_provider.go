package audio

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider interface for Gemini native TTS. The
// model answers with inline audio/L16 data at 24 kHz.
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// Synthesize generates PCM speech using Gemini
func (p *GeminiProvider) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ValidateChineseText(text); err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: p.config.GeminiVoice,
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(strings.TrimSpace(text)), cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini TTS API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoAudio
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}
	return "", ErrNoAudio
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks if the Gemini API is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
