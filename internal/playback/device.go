package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// ErrDeviceClosed is returned by a device after Close
var ErrDeviceClosed = errors.New("output device closed")

// DeviceState is the lifecycle of an output device
type DeviceState int

const (
	// Suspended devices must be resumed before they play
	Suspended DeviceState = iota
	Running
	Closed
)

func (s DeviceState) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Device is an audio output owned by one session
type Device interface {
	State() DeviceState
	Resume(ctx context.Context) error
	// Play starts the buffer and returns without waiting for it to finish
	Play(buf *Buffer) error
	Close() error
}

// player describes an external command that reads raw float32le mono from stdin
type player struct {
	name string
	args func(rate int) []string
}

var linuxPlayers = []player{
	{"pw-play", func(rate int) []string {
		return []string{"--format", "f32", "--rate", strconv.Itoa(rate), "--channels", "1", "-"}
	}},
	{"paplay", func(rate int) []string {
		return []string{"--raw", "--format=float32le", "--rate=" + strconv.Itoa(rate), "--channels=1"}
	}},
	{"aplay", func(rate int) []string {
		return []string{"-q", "-t", "raw", "-f", "FLOAT_LE", "-r", strconv.Itoa(rate), "-c", "1", "-"}
	}},
	ffplay,
}

var ffplay = player{"ffplay", func(rate int) []string {
	return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-f", "f32le", "-ar", strconv.Itoa(rate), "-i", "-"}
}}

func candidates(goos string) []player {
	switch goos {
	case "linux":
		return linuxPlayers
	default:
		return []player{ffplay}
	}
}

// ExecDevice plays buffers by piping them into a platform audio command.
// It starts suspended; Resume picks the first available player.
type ExecDevice struct {
	mu     sync.Mutex
	state  DeviceState
	player *player
	wg     sync.WaitGroup
	log    *zap.Logger

	// preferred player name, empty for auto-detection
	preferred string

	lookPath func(string) (string, error)
	command  func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExecDevice creates a suspended device. preferred may name a player
// such as "aplay"; an empty value auto-detects one.
func NewExecDevice(preferred string, log *zap.Logger) *ExecDevice {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecDevice{
		state:     Suspended,
		preferred: preferred,
		log:       log,
		lookPath:  exec.LookPath,
		command:   exec.CommandContext,
	}
}

// State returns the current device state
func (d *ExecDevice) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Resume finds a player and moves the device to Running
func (d *ExecDevice) Resume(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Closed:
		return ErrDeviceClosed
	case Running:
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range candidates(runtime.GOOS) {
		if d.preferred != "" && p.name != d.preferred {
			continue
		}
		if _, err := d.lookPath(p.name); err == nil {
			d.player = &p
			d.state = Running
			d.log.Debug("audio device resumed", zap.String("player", p.name))
			return nil
		}
	}

	if d.preferred != "" {
		return fmt.Errorf("audio player %q not found", d.preferred)
	}
	return fmt.Errorf("no audio player found. Install pw-play, paplay, aplay, or ffplay")
}

// Play starts playback in the background
func (d *ExecDevice) Play(buf *Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case Closed:
		return ErrDeviceClosed
	case Suspended:
		return fmt.Errorf("audio device is suspended")
	}
	if buf == nil || len(buf.Samples) == 0 {
		return nil
	}

	// Playback is detached from the session, so it gets its own context
	name := d.player.name
	cmd := d.command(context.Background(), name, d.player.args(buf.SampleRate)...)
	cmd.Stdin = bytes.NewReader(float32LE(buf.Samples))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := cmd.Wait(); err != nil {
			d.log.Debug("audio player exited", zap.String("player", name), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until every started playback has finished
func (d *ExecDevice) Wait() {
	d.wg.Wait()
}

// Close releases the device. Audio already playing is left alone.
func (d *ExecDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Closed
	return nil
}

// NullDevice accepts buffers without producing sound
type NullDevice struct {
	mu      sync.Mutex
	state   DeviceState
	played  []*Buffer
	resumes int
}

// NewNullDevice creates a suspended silent device
func NewNullDevice() *NullDevice {
	return &NullDevice{state: Suspended}
}

// State returns the current device state
func (d *NullDevice) State() DeviceState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Resume moves the device to Running
func (d *NullDevice) Resume(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Closed {
		return ErrDeviceClosed
	}
	if d.state == Suspended {
		d.resumes++
	}
	d.state = Running
	return nil
}

// Play records the buffer
func (d *NullDevice) Play(buf *Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case Closed:
		return ErrDeviceClosed
	case Suspended:
		return fmt.Errorf("audio device is suspended")
	}
	d.played = append(d.played, buf)
	return nil
}

// Close releases the device
func (d *NullDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = Closed
	return nil
}

// Suspend puts the device back into the suspended state
func (d *NullDevice) Suspend() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == Running {
		d.state = Suspended
	}
}

// Played returns the buffers played so far
func (d *NullDevice) Played() []*Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Buffer(nil), d.played...)
}

// Resumes counts transitions out of Suspended
func (d *NullDevice) Resumes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resumes
}

// NewDevice creates a device by name: "none" for silence, anything else
// is handed to NewExecDevice ("auto" or "" auto-detects).
func NewDevice(name string, log *zap.Logger) Device {
	switch name {
	case "none":
		return NewNullDevice()
	case "auto":
		return NewExecDevice("", log)
	default:
		return NewExecDevice(name, log)
	}
}
