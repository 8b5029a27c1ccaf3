package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	ListModels bool
	LogMode    string
	LogLevel   string

	// Word list flags
	ContentProvider string
	GeminiModel     string
	OpenAIModel     string
	WordCount       int
	Timeout         time.Duration

	// Speech flags
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

	// Playback and quiz flags
	Device string
	Dwell  time.Duration
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogMode:         "development",
		LogLevel:        "warn",
		ContentProvider: "gemini",
		GeminiModel:     "gemini-2.5-flash",
		OpenAIModel:     "gpt-4o-mini",
		WordCount:       5,
		Timeout:         30 * time.Second,
		SpeechProvider:  "gemini",
		GeminiTTSModel:  "gemini-2.5-flash-preview-tts",
		GeminiVoice:     "Puck",
		OpenAITTSModel:  "gpt-4o-mini-tts",
		OpenAIVoice:     "nova",
		OpenAISpeed:     0.9,
		ESpeakVoice:     "cmn",
		SpeechFallback:  true,
		SpeechCache:     true,
		Device:          "auto",
		Dwell:           1500 * time.Millisecond,
	}
}
