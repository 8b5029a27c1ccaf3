package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "cmn", "cmn+f3")
	Speed     int    // Speech speed in words per minute (default: 130)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultESpeakConfig returns the default configuration for a Mandarin voice
func DefaultESpeakConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "cmn",
		Speed:     130,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeakProvider speaks offline with espeak-ng. espeak-ng writes WAV at its
// own rate, so the output is resampled to 24 kHz raw PCM with ffmpeg.
type ESpeakProvider struct {
	config *ESpeakConfig
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (Provider, error) {
	if config == nil {
		config = DefaultESpeakConfig()
	}
	p := &ESpeakProvider{config: config}
	if err := p.IsAvailable(); err != nil {
		return nil, err
	}
	return p, nil
}

// args builds the espeak-ng command line
func (p *ESpeakProvider) args(text string) []string {
	args := []string{
		"-v", p.config.Voice,
		"-s", strconv.Itoa(clamp(p.config.Speed, 80, 450)),
		"-p", strconv.Itoa(clamp(p.config.Pitch, 0, 99)),
		"-a", strconv.Itoa(clamp(p.config.Amplitude, 0, 200)),
	}

	// Add word gap if specified
	if p.config.WordGap > 0 {
		args = append(args, "-g", strconv.Itoa(p.config.WordGap))
	}

	return append(args, "--stdout", text)
}

// Synthesize generates PCM speech using espeak-ng and ffmpeg
func (p *ESpeakProvider) Synthesize(ctx context.Context, text string) (string, error) {
	if err := ValidateChineseText(text); err != nil {
		return "", err
	}

	var wav, stderr bytes.Buffer
	speak := exec.CommandContext(ctx, "espeak-ng", p.args(strings.TrimSpace(text))...)
	speak.Stdout = &wav
	speak.Stderr = &stderr
	if err := speak.Run(); err != nil {
		return "", fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, stderr.String())
	}

	pcm, err := convertWAVToPCM(ctx, wav.Bytes())
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", ErrNoAudio
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}

// convertWAVToPCM resamples WAV data to 24 kHz 16-bit little-endian mono
func convertWAVToPCM(ctx context.Context, wav []byte) ([]byte, error) {
	var pcm, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-loglevel", "error", "-i", "pipe:0",
		"-f", "s16le", "-acodec", "pcm_s16le", "-ar", "24000", "-ac", "1", "pipe:1")
	cmd.Stdin = bytes.NewReader(wav)
	cmd.Stdout = &pcm
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, stderr.String())
	}
	return pcm.Bytes(), nil
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// IsAvailable checks if espeak-ng and ffmpeg are installed
func (p *ESpeakProvider) IsAvailable() error {
	for _, tool := range []string{"espeak-ng", "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s is not installed or not in PATH: %w", tool, err)
		}
	}
	return nil
}

// ListVoices returns the Mandarin voice variants espeak-ng ships with
func ListVoices() []string {
	return []string{
		"cmn",    // Default Mandarin voice
		"cmn+m1", // Mandarin male voice 1
		"cmn+m3", // Mandarin male voice 3
		"cmn+f1", // Mandarin female voice 1
		"cmn+f3", // Mandarin female voice 3
		"cmn+f4", // Mandarin female voice 4
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
