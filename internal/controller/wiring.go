package controller

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/audio"
	"codeberg.org/snonux/wordgarden/internal/cli"
	"codeberg.org/snonux/wordgarden/internal/playback"
	"codeberg.org/snonux/wordgarden/internal/session"
	"codeberg.org/snonux/wordgarden/internal/wordlist"
)

// NewGenerator creates the word list generator the settings ask for
func NewGenerator(ctx context.Context, s *cli.Settings) (wordlist.Generator, error) {
	switch s.ContentProvider {
	case "gemini":
		return wordlist.NewGeminiGenerator(ctx, s.GeminiKey, s.GeminiModel)
	case "openai":
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return wordlist.NewOpenAIGenerator(s.OpenAIKey, s.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown content provider: %s", s.ContentProvider)
	}
}

// SpeechConfig translates settings into provider configuration
func SpeechConfig(s *cli.Settings) *audio.Config {
	config := audio.DefaultProviderConfig()
	config.Provider = s.SpeechProvider
	config.Fallback = s.SpeechFallback
	config.GeminiKey = s.GeminiKey
	config.GeminiModel = s.GeminiTTSModel
	config.GeminiVoice = s.GeminiVoice
	config.OpenAIKey = s.OpenAIKey
	config.OpenAIModel = s.OpenAITTSModel
	config.OpenAIVoice = s.OpenAIVoice
	config.OpenAISpeed = s.OpenAISpeed
	config.ESpeakVoice = s.ESpeakVoice
	config.EnableCache = s.SpeechCache
	config.CachePath = s.CachePath
	return config
}

// Wiring holds the long-lived collaborators built from settings
type Wiring struct {
	Services Services
	Speech   audio.Provider // nil when no speech provider could be set up
	device   string
	log      *zap.Logger
}

// Wire builds the production services. A missing word list provider is an
// error; a missing speech provider only makes sessions silent.
func Wire(ctx context.Context, s *cli.Settings, log *zap.Logger) (*Wiring, error) {
	if log == nil {
		log = zap.NewNop()
	}

	gen, err := NewGenerator(ctx, s)
	if err != nil {
		return nil, err
	}

	w := &Wiring{device: s.Device, log: log}
	w.Services = Services{
		Acquirer: wordlist.NewAcquirer(gen, wordlist.Config{Count: s.WordCount, Timeout: s.Timeout}, log),
		Dwell:    s.Dwell,
		Log:      log,
	}

	speech, err := audio.NewProvider(ctx, SpeechConfig(s), log)
	if err != nil {
		log.Warn("speech disabled", zap.String("provider", s.SpeechProvider), zap.Error(err))
		return w, nil
	}
	w.Speech = speech
	w.Services.NewSpeaker = func() session.Speaker {
		return w.NewPipeline()
	}
	return w, nil
}

// NewPipeline creates a speech pipeline on a fresh output device
func (w *Wiring) NewPipeline() *playback.Pipeline {
	return playback.NewPipeline(w.Speech, playback.NewDevice(w.device, w.log), w.log)
}

// Close releases the speech cache, if any
func (w *Wiring) Close() error {
	if c, ok := w.Speech.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
