package cli

import (
	"time"

	"github.com/spf13/viper"
)

// Settings is the resolved configuration after flags, config file and
// environment have been merged
type Settings struct {
	ContentProvider string
	GeminiModel     string
	OpenAIModel     string
	WordCount       int
	Timeout         time.Duration

	SpeechProvider string
	GeminiTTSModel string
	GeminiVoice    string
	OpenAITTSModel string
	OpenAIVoice    string
	OpenAISpeed    float64
	ESpeakVoice    string
	SpeechFallback bool
	SpeechCache    bool
	CachePath      string

	Device string
	Dwell  time.Duration

	LogMode  string
	LogLevel string

	GeminiKey string
	OpenAIKey string
}

// LoadSettings reads the merged configuration from viper. Keys that are
// unset fall back to the flag defaults.
func LoadSettings() *Settings {
	d := NewFlags()
	return &Settings{
		ContentProvider: stringOr("content.provider", d.ContentProvider),
		GeminiModel:     stringOr("content.gemini_model", d.GeminiModel),
		OpenAIModel:     stringOr("content.openai_model", d.OpenAIModel),
		WordCount:       intOr("content.word_count", d.WordCount),
		Timeout:         durationOr("content.timeout", d.Timeout),

		SpeechProvider: stringOr("speech.provider", d.SpeechProvider),
		GeminiTTSModel: stringOr("speech.gemini_model", d.GeminiTTSModel),
		GeminiVoice:    stringOr("speech.gemini_voice", d.GeminiVoice),
		OpenAITTSModel: stringOr("speech.openai_model", d.OpenAITTSModel),
		OpenAIVoice:    stringOr("speech.openai_voice", d.OpenAIVoice),
		OpenAISpeed:    floatOr("speech.openai_speed", d.OpenAISpeed),
		ESpeakVoice:    stringOr("speech.espeak_voice", d.ESpeakVoice),
		SpeechFallback: boolOr("speech.fallback", d.SpeechFallback),
		SpeechCache:    boolOr("speech.cache", d.SpeechCache),
		CachePath:      stringOr("speech.cache_path", defaultCachePath()),

		Device: stringOr("playback.device", d.Device),
		Dwell:  durationOr("quiz.dwell", d.Dwell),

		LogMode:  stringOr("log.mode", d.LogMode),
		LogLevel: stringOr("log.level", d.LogLevel),

		GeminiKey: GetGeminiKey(),
		OpenAIKey: GetOpenAIKey(),
	}
}

func stringOr(key, def string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	if v := viper.GetInt(key); v > 0 {
		return v
	}
	return def
}

func floatOr(key string, def float64) float64 {
	if v := viper.GetFloat64(key); v > 0 {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	if v := viper.GetDuration(key); v > 0 {
		return v
	}
	return def
}

func boolOr(key string, def bool) bool {
	if !viper.IsSet(key) {
		return def
	}
	return viper.GetBool(key)
}
