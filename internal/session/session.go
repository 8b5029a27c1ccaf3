package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/vocab"
)

var (
	// ErrClosed is returned by operations on a closed session
	ErrClosed = errors.New("session closed")
	// ErrNotRetryable is returned by Retry outside of a retryable phase
	ErrNotRetryable = errors.New("nothing to retry")
)

// Phase is the state of a session's state machine
type Phase int

const (
	Loading Phase = iota
	Empty
	Browsing
	Asking
	Revealing
	Finished
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case Browsing:
		return "browsing"
	case Asking:
		return "asking"
	case Revealing:
		return "revealing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Acquirer produces the word set for a theme. An empty set means failure.
type Acquirer interface {
	Acquire(ctx context.Context, theme string) vocab.WordSet
}

// Speaker speaks text on a session-scoped output device
type Speaker interface {
	Speak(ctx context.Context, text string) error
	Close() error
}

// Scheduler runs f once after d. The returned stop function cancels it and
// reports whether it was still pending.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

type clock struct{}

func (clock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// SystemScheduler schedules on the wall clock
var SystemScheduler Scheduler = clock{}

// Config is shared by both session kinds
type Config struct {
	ID  string
	Log *zap.Logger

	// OnChange is called after every asynchronous state change, outside
	// the session lock
	OnChange func()
}

func (c Config) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// loader is the acquisition bookkeeping both sessions share. Callers hold
// the session mutex around every method.
type loader struct {
	acq     Acquirer
	theme   string
	epoch   uint64
	closed  bool
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

// begin starts a new epoch and cancels interest in the previous acquisition
func (l *loader) begin(ctx context.Context, theme string) (context.Context, uint64) {
	if l.cancel != nil {
		l.cancel()
	}
	l.epoch++
	l.theme = theme
	ctx, l.cancel = context.WithCancel(ctx)
	return ctx, l.epoch
}

// current reports whether a completion from epoch may still be applied
func (l *loader) current(epoch uint64) bool {
	return !l.closed && epoch == l.epoch
}

func (l *loader) close() {
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
