package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogMode", flags.LogMode, "development"},
		{"LogLevel", flags.LogLevel, "warn"},
		{"ContentProvider", flags.ContentProvider, "gemini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.5-flash"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"WordCount", flags.WordCount, 5},
		{"Timeout", flags.Timeout, 30 * time.Second},
		{"SpeechProvider", flags.SpeechProvider, "gemini"},
		{"GeminiTTSModel", flags.GeminiTTSModel, "gemini-2.5-flash-preview-tts"},
		{"GeminiVoice", flags.GeminiVoice, "Puck"},
		{"OpenAITTSModel", flags.OpenAITTSModel, "gpt-4o-mini-tts"},
		{"OpenAIVoice", flags.OpenAIVoice, "nova"},
		{"OpenAISpeed", flags.OpenAISpeed, 0.9},
		{"ESpeakVoice", flags.ESpeakVoice, "cmn"},
		{"Device", flags.Device, "auto"},
		{"Dwell", flags.Dwell, 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults
	boolTests := []struct {
		name     string
		value    bool
		expected bool
	}{
		{"ListModels", flags.ListModels, false},
		{"SpeechFallback", flags.SpeechFallback, true},
		{"SpeechCache", flags.SpeechCache, true},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != tt.expected {
				t.Errorf("%s = %v, want %v", tt.name, tt.value, tt.expected)
			}
		})
	}

	// Test string fields that should be empty by default
	if flags.CfgFile != "" {
		t.Errorf("CfgFile = %q, want empty", flags.CfgFile)
	}
}
