package playback

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// SampleRate is the rate every speech provider delivers
	SampleRate = 24000
	// Channels is always mono
	Channels = 1
)

// ErrDecode marks a speech payload that cannot be turned into samples
var ErrDecode = errors.New("malformed pcm payload")

// Buffer is one decoded playback unit
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames
func (b *Buffer) Frames() int {
	if b.Channels <= 0 {
		return len(b.Samples)
	}
	return len(b.Samples) / b.Channels
}

// Duration returns how long the buffer plays
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode converts base64 16-bit little-endian mono PCM into a buffer at the
// given rate. Each sample s becomes s/32768.0.
func Decode(payload string, rate int) (*Buffer, error) {
	if rate <= 0 {
		rate = SampleRate
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte count %d", ErrDecode, len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(s) / 32768.0
	}

	return &Buffer{Samples: samples, SampleRate: rate, Channels: Channels}, nil
}

// float32LE serializes samples the way raw-PCM players expect them
func float32LE(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(s))
	}
	return out
}
