package audio

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// speechFormatPCM is raw 24 kHz 16-bit signed little-endian mono
const speechFormatPCM = openai.SpeechResponseFormat("pcm")

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// Synthesize generates PCM speech using OpenAI TTS
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ValidateChineseText(text); err != nil {
		return "", err
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: speechFormatPCM,
	}

	// Only the gpt-4o family understands voice instructions
	if p.config.OpenAIInstruction != "" && supportsInstructions(p.config.OpenAIModel) {
		req.Instructions = p.config.OpenAIInstruction
	}

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "does not have access to model") && supportsInstructions(p.config.OpenAIModel) {
			return "", fmt.Errorf("OpenAI TTS API error: %w\nNote: The %s model requires access. Try using --openai-model tts-1 instead", err, p.config.OpenAIModel)
		}
		return "", fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	pcm, err := io.ReadAll(response)
	if err != nil {
		return "", fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}

	return base64.StdEncoding.EncodeToString(pcm), nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}

	// A real probe would spend credits, a key is good enough
	return nil
}

func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}
