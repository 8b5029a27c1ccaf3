package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrNoAudio is returned when a provider answered without audio data
var ErrNoAudio = errors.New("no audio data received")

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// Synthesize returns the spoken text as base64-encoded raw PCM
	// (16-bit signed little-endian, mono, 24 kHz).
	Synthesize(ctx context.Context, text string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "gemini", "openai" or "espeak"
	Fallback bool   // Fall back to the other provider when its key is present

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string // "gemini-2.5-flash-preview-tts"
	GeminiVoice string // prebuilt voice, e.g. "Puck", "Kore", "Leda"

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "coral", "nova", "shimmer", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// espeak-ng settings, used offline
	ESpeakVoice string // "cmn", "cmn+f3", ...
	ESpeakSpeed int

	EnableCache bool
	CachePath   string // sqlite database file
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "gemini",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Puck", // friendly, higher pitch
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       0.9,
		ESpeakVoice:       "cmn",
		ESpeakSpeed:       130,
		OpenAIInstruction: "You are reading Mandarin Chinese (普通话) to a five-year-old child. Pronounce each word slowly and clearly with correct tones.",
	}
}

// NewProvider creates the appropriate audio provider based on configuration.
// The result is wrapped with a fallback, a circuit breaker and a cache as
// the configuration asks for.
func NewProvider(ctx context.Context, config *Config, log *zap.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	primary, err := newSingleProvider(ctx, config.Provider, config)
	if err != nil {
		return nil, err
	}

	var provider Provider = NewProviderWithBreaker(primary, log)
	if config.Fallback {
		if other := otherProvider(config.Provider); other != "" {
			if fallback, err := newSingleProvider(ctx, other, config); err == nil {
				provider = NewProviderWithFallback(provider, NewProviderWithBreaker(fallback, log), log)
			} else {
				log.Debug("speech fallback not configured", zap.String("provider", other), zap.Error(err))
			}
		}
	}

	if config.EnableCache && config.CachePath != "" {
		cache, err := OpenSQLiteCache(config.CachePath)
		if err != nil {
			log.Warn("speech cache disabled", zap.String("path", config.CachePath), zap.Error(err))
			return provider, nil
		}
		provider = NewCachingProvider(provider, cache, identity(config), log)
	}

	return provider, nil
}

func newSingleProvider(ctx context.Context, name string, config *Config) (Provider, error) {
	switch name {
	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(ctx, config)
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "espeak":
		espeak := DefaultESpeakConfig()
		if config.ESpeakVoice != "" {
			espeak.Voice = config.ESpeakVoice
		}
		if config.ESpeakSpeed > 0 {
			espeak.Speed = config.ESpeakSpeed
		}
		return NewESpeakProvider(espeak)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

func otherProvider(name string) string {
	switch name {
	case "gemini":
		return "openai"
	case "openai":
		return "gemini"
	}
	return ""
}

// identity describes everything that changes the synthesized sound
func identity(config *Config) string {
	switch config.Provider {
	case "openai":
		return fmt.Sprintf("openai|%s|%s|%.2f|%s", config.OpenAIModel, config.OpenAIVoice, config.OpenAISpeed, config.OpenAIInstruction)
	case "espeak":
		return fmt.Sprintf("espeak|%s|%d", config.ESpeakVoice, config.ESpeakSpeed)
	default:
		return fmt.Sprintf("%s|%s|%s", config.Provider, config.GeminiModel, config.GeminiVoice)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	log      *zap.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		log:      log,
	}
}

// Synthesize tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) Synthesize(ctx context.Context, text string) (string, error) {
	payload, err := p.primary.Synthesize(ctx, text)
	if err == nil {
		return payload, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	p.log.Warn("primary speech provider failed, falling back",
		zap.String("primary", p.primary.Name()), zap.String("fallback", p.fallback.Name()), zap.Error(err))
	return p.fallback.Synthesize(ctx, text)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// ProviderWithBreaker stops calling a provider that keeps failing
type ProviderWithBreaker struct {
	next    Provider
	breaker *gobreaker.CircuitBreaker
}

// NewProviderWithBreaker wraps a provider with a circuit breaker
func NewProviderWithBreaker(next Provider, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProviderWithBreaker{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "speech-" + next.Name(),
			MaxRequests: 1,
			Timeout:     20 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrInvalidText)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state changed",
					zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
			},
		}),
	}
}

// Synthesize calls the wrapped provider unless the breaker is open
func (p *ProviderWithBreaker) Synthesize(ctx context.Context, text string) (string, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.next.Synthesize(ctx, text)
	})
	if err != nil {
		return "", err
	}
	payload, _ := out.(string)
	return payload, nil
}

// Name returns the provider name
func (p *ProviderWithBreaker) Name() string {
	return p.next.Name()
}

// IsAvailable reports the wrapped provider's availability, or an error while the breaker is open
func (p *ProviderWithBreaker) IsAvailable() error {
	if p.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", p.next.Name(), gobreaker.ErrOpenState)
	}
	return p.next.IsAvailable()
}
