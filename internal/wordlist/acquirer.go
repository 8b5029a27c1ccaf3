package wordlist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// Config tunes an Acquirer.
type Config struct {
	Count   int           // words requested per theme
	Timeout time.Duration // per-request deadline, 0 disables it
}

// DefaultConfig returns the acquirer defaults
func DefaultConfig() Config {
	return Config{
		Count:   DefaultWordCount,
		Timeout: 30 * time.Second,
	}
}

// Acquirer turns a theme into a validated word set. It never returns an
// error: any transport, parse or schema failure yields an empty set.
type Acquirer struct {
	gen     Generator
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewAcquirer wraps a generator with validation and a circuit breaker
func NewAcquirer(gen Generator, cfg Config, log *zap.Logger) *Acquirer {
	if cfg.Count <= 0 {
		cfg.Count = DefaultWordCount
	}
	if log == nil {
		log = zap.NewNop()
	}
	a := &Acquirer{gen: gen, cfg: cfg, log: log}
	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "wordlist-" + gen.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// an abandoned request says nothing about the service's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return a
}

// Acquire requests a word set for the theme
func (a *Acquirer) Acquire(ctx context.Context, theme string) vocab.WordSet {
	words, err := a.acquire(ctx, theme)
	if err != nil {
		a.log.Warn("word set acquisition failed",
			zap.String("theme", theme), zap.String("generator", a.gen.Name()), zap.Error(err))
		return vocab.WordSet{}
	}
	a.log.Debug("word set acquired", zap.String("theme", theme), zap.Int("count", len(words)))
	return words
}

func (a *Acquirer) acquire(ctx context.Context, theme string) (words vocab.WordSet, err error) {
	defer func() {
		// a misbehaving generator must not take the session down with it
		if r := recover(); r != nil {
			words, err = nil, fmt.Errorf("generator panic: %v", r)
		}
	}()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	out, err := a.breaker.Execute(func() (interface{}, error) {
		return a.gen.Generate(ctx, Request{Theme: theme, Count: a.cfg.Count})
	})
	if err != nil {
		return nil, err
	}
	raw, _ := out.([]byte)
	return ParseWordSet(raw)
}

// ParseWordSet decodes a JSON array of word objects and validates the batch
// as a whole. Items are trimmed before validation.
func ParseWordSet(raw []byte) (vocab.WordSet, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	var items []vocab.WordItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	for i := range items {
		items[i] = items[i].Normalize()
	}
	if err := vocab.ValidateSet(items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}
	return vocab.WordSet(items), nil
}
