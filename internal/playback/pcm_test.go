package playback

import (
	"encoding/base64"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcm16(samples ...int16) string {
	raw := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		raw = append(raw, byte(uint16(s)), byte(uint16(s)>>8))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecode(t *testing.T) {
	buf, err := Decode(pcm16(0, 16384, -32768, 32767), SampleRate)
	require.NoError(t, err)

	assert.Equal(t, 24000, buf.SampleRate)
	assert.Equal(t, 1, buf.Channels)
	require.Len(t, buf.Samples, 4)
	assert.Equal(t, float32(0), buf.Samples[0])
	assert.Equal(t, float32(0.5), buf.Samples[1])
	assert.Equal(t, float32(-1), buf.Samples[2])
	assert.InDelta(t, 0.999969, buf.Samples[3], 1e-6)
}

func TestDecode_Range(t *testing.T) {
	buf, err := Decode(pcm16(math.MinInt16, -1, 1, math.MaxInt16), 0)
	require.NoError(t, err)
	assert.Equal(t, SampleRate, buf.SampleRate, "zero rate falls back to the default")
	for _, s := range buf.Samples {
		assert.GreaterOrEqual(t, s, float32(-1))
		assert.Less(t, s, float32(1))
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "%%%"},
		{"empty", ""},
		{"odd byte count", base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload, SampleRate)
			assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestBufferDuration(t *testing.T) {
	buf := &Buffer{Samples: make([]float32, 36000), SampleRate: SampleRate, Channels: 1}
	assert.Equal(t, 36000, buf.Frames())
	assert.Equal(t, 1500*time.Millisecond, buf.Duration())

	assert.Zero(t, (&Buffer{}).Duration())
}

func TestFloat32LE(t *testing.T) {
	out := float32LE([]float32{0.5, -1})
	require.Len(t, out, 8)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x3f}, out[:4])
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0xbf}, out[4:])
}
