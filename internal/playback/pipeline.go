package playback

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Synthesizer turns text into base64-encoded PCM
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Pipeline speaks text through one device. It is owned by one session and
// closed with it.
type Pipeline struct {
	synth  Synthesizer
	device Device
	rate   int
	log    *zap.Logger
}

// NewPipeline creates a pipeline over a session-scoped device
func NewPipeline(synth Synthesizer, device Device, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{synth: synth, device: device, rate: SampleRate, log: log}
}

// Speak synthesizes text and starts playing it. It returns once playback
// has started; the sound itself is not awaited.
func (p *Pipeline) Speak(ctx context.Context, text string) error {
	if p.device.State() == Closed {
		return ErrDeviceClosed
	}

	payload, err := p.synth.Synthesize(ctx, text)
	if err != nil {
		p.log.Debug("speech synthesis failed", zap.String("text", text), zap.Error(err))
		return fmt.Errorf("synthesize %q: %w", text, err)
	}

	buf, err := Decode(payload, p.rate)
	if err != nil {
		p.log.Debug("speech decode failed", zap.String("text", text), zap.Error(err))
		return err
	}

	if p.device.State() == Suspended {
		if err := p.device.Resume(ctx); err != nil {
			p.log.Warn("audio device resume failed", zap.Error(err))
			return fmt.Errorf("resume device: %w", err)
		}
	}

	if err := p.device.Play(buf); err != nil {
		p.log.Debug("audio playback failed", zap.Error(err))
		return err
	}
	p.log.Debug("playing speech", zap.String("text", text), zap.Duration("duration", buf.Duration()))
	return nil
}

// Device returns the device the pipeline plays on
func (p *Pipeline) Device() Device {
	return p.device
}

// Close releases the device
func (p *Pipeline) Close() error {
	return p.device.Close()
}
