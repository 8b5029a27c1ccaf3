package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	payload       string
	synthErr      error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) Synthesize(ctx context.Context, text string) (string, error) {
	m.generateCalls++
	if m.synthErr != nil {
		return "", m.synthErr
	}
	return m.payload, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	assert.Equal(t, "gemini", config.Provider)
	assert.Equal(t, "gemini-2.5-flash-preview-tts", config.GeminiModel)
	assert.Equal(t, "Puck", config.GeminiVoice)
	assert.Equal(t, "gpt-4o-mini-tts", config.OpenAIModel)
	assert.Equal(t, 0.9, config.OpenAISpeed)
	assert.False(t, config.EnableCache)
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantErr  string
		wantName string
	}{
		{
			name:    "nil config uses defaults",
			config:  nil,
			wantErr: "Gemini API key is required",
		},
		{
			name:    "openai provider without key",
			config:  &Config{Provider: "openai"},
			wantErr: "OpenAI API key is required",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "unknown"},
			wantErr: "unknown audio provider: unknown",
		},
		{
			name:     "openai provider",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:     "fallback without a second key stays single",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key", Fallback: true},
			wantName: "openai",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.config, zap.NewNop())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, provider.Name())
		})
	}
}

func TestNewProvider_WithCache(t *testing.T) {
	config := &Config{
		Provider:    "openai",
		OpenAIKey:   "test-key",
		EnableCache: true,
		CachePath:   t.TempDir() + "/speech.db",
	}

	provider, err := NewProvider(context.Background(), config, zap.NewNop())
	require.NoError(t, err)

	caching, ok := provider.(*CachingProvider)
	require.True(t, ok, "expected a caching provider, got %T", provider)
	assert.NoError(t, caching.Close())
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary", payload: "cHJpbWFyeQ=="}
	fallback := &mockProvider{name: "fallback", payload: "ZmFsbGJhY2s="}

	provider := NewProviderWithFallback(primary, fallback, zap.NewNop())
	ctx := context.Background()

	// Successful primary
	payload, err := provider.Synthesize(ctx, "猫")
	require.NoError(t, err)
	assert.Equal(t, "cHJpbWFyeQ==", payload)
	assert.Equal(t, 1, primary.generateCalls)
	assert.Equal(t, 0, fallback.generateCalls)

	// Primary failure, fallback success
	primary.synthErr = errors.New("primary failed")
	payload, err = provider.Synthesize(ctx, "猫")
	require.NoError(t, err)
	assert.Equal(t, "ZmFsbGJhY2s=", payload)
	assert.Equal(t, 1, fallback.generateCalls)

	// Both fail
	fallback.synthErr = errors.New("fallback failed")
	_, err = provider.Synthesize(ctx, "猫")
	assert.EqualError(t, err, "fallback failed")
}

func TestProviderWithFallback_CanceledContextSkipsFallback(t *testing.T) {
	primary := &mockProvider{name: "primary", synthErr: context.Canceled}
	fallback := &mockProvider{name: "fallback", payload: "eA=="}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProviderWithFallback(primary, fallback, zap.NewNop()).Synthesize(ctx, "猫")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, fallback.generateCalls)
}

func TestProviderWithFallbackNameAndAvailability(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}
	provider := NewProviderWithFallback(primary, fallback, nil)

	assert.Equal(t, "primary (fallback: fallback)", provider.Name())
	assert.NoError(t, provider.IsAvailable())

	primary.availableErr = errors.New("primary unavailable")
	assert.NoError(t, provider.IsAvailable())

	fallback.availableErr = errors.New("fallback unavailable")
	assert.Error(t, provider.IsAvailable())
}

func TestProviderWithBreaker(t *testing.T) {
	inner := &mockProvider{name: "flaky", synthErr: errors.New("500 internal error")}
	provider := NewProviderWithBreaker(inner, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := provider.Synthesize(context.Background(), "猫")
		assert.Error(t, err)
	}
	assert.Equal(t, 3, inner.generateCalls, "breaker should stop calling after three failures")
	assert.Error(t, provider.IsAvailable())
	assert.Equal(t, "flaky", provider.Name())
}

func TestProviderWithBreaker_InvalidTextDoesNotTrip(t *testing.T) {
	inner := &mockProvider{name: "strict", synthErr: ErrInvalidText}
	provider := NewProviderWithBreaker(inner, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _ = provider.Synthesize(context.Background(), "hello")
	}
	assert.Equal(t, 5, inner.generateCalls)
	assert.NoError(t, provider.IsAvailable())
}

func TestIdentity(t *testing.T) {
	gemini := &Config{Provider: "gemini", GeminiModel: "m", GeminiVoice: "Puck"}
	other := &Config{Provider: "gemini", GeminiModel: "m", GeminiVoice: "Kore"}
	assert.NotEqual(t, identity(gemini), identity(other))

	openaiCfg := &Config{Provider: "openai", OpenAIModel: "tts-1", OpenAIVoice: "nova", OpenAISpeed: 1}
	assert.Contains(t, identity(openaiCfg), "openai|tts-1|nova|1.00")

	espeakCfg := &Config{Provider: "espeak", ESpeakVoice: "cmn", ESpeakSpeed: 130}
	assert.Equal(t, "espeak|cmn|130", identity(espeakCfg))
}
