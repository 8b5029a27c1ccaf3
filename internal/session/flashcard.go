package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// FlashcardState is a snapshot of a flashcard session
type FlashcardState struct {
	ID        string
	Theme     string
	Phase     Phase
	Words     vocab.WordSet
	Position  int
	Flipped   bool
	AudioBusy bool
	Epoch     uint64
}

// Current returns the card at Position while browsing
func (s FlashcardState) Current() (vocab.WordItem, bool) {
	if s.Phase != Browsing || s.Position < 0 || s.Position >= len(s.Words) {
		return vocab.WordItem{}, false
	}
	return s.Words[s.Position], true
}

// Progress returns the 1-based card number and the number of cards
func (s FlashcardState) Progress() (int, int) {
	if s.Phase != Browsing {
		return 0, len(s.Words)
	}
	return s.Position + 1, len(s.Words)
}

// Flashcard browses a word set card by card
type Flashcard struct {
	mu       sync.Mutex
	cfg      Config
	log      *zap.Logger
	loader   loader
	phase    Phase
	words    vocab.WordSet
	position int
	flipped  bool
	busy     bool

	newSpeaker func() Speaker
	speaker    Speaker
	speakCtx   context.Context
	stopSpeak  context.CancelFunc
}

// NewFlashcard creates a session in the Loading phase. newSpeaker is called
// once, when the session first has cards to show; it may be nil for a
// silent session.
func NewFlashcard(acq Acquirer, newSpeaker func() Speaker, cfg Config) *Flashcard {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Flashcard{
		cfg:        cfg,
		log:        cfg.logger().With(zap.String("session", cfg.ID), zap.String("mode", "learn")),
		loader:     loader{acq: acq},
		phase:      Loading,
		newSpeaker: newSpeaker,
		speakCtx:   ctx,
		stopSpeak:  cancel,
	}
	return f
}

// Load acquires a fresh word set for theme and resets the session. A load
// still in flight is superseded and its result discarded.
func (f *Flashcard) Load(ctx context.Context, theme string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loader.closed {
		return ErrClosed
	}
	f.startLoad(ctx, theme)
	return nil
}

// Retry re-runs acquisition for the current theme. Only an empty session
// can be retried.
func (f *Flashcard) Retry(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loader.closed {
		return ErrClosed
	}
	if f.phase != Empty {
		return ErrNotRetryable
	}
	f.startLoad(ctx, f.loader.theme)
	return nil
}

// startLoad expects f.mu to be held
func (f *Flashcard) startLoad(ctx context.Context, theme string) {
	ctx, epoch := f.loader.begin(ctx, theme)
	f.phase = Loading
	f.words = nil
	f.position = 0
	f.flipped = false
	f.busy = false

	f.log.Debug("loading word set", zap.String("theme", theme), zap.Uint64("epoch", epoch))

	f.loader.pending.Add(1)
	go func() {
		defer f.loader.pending.Done()
		words := f.loader.acq.Acquire(ctx, theme)
		f.finishLoad(epoch, theme, words)
	}()
}

func (f *Flashcard) finishLoad(epoch uint64, theme string, words vocab.WordSet) {
	f.mu.Lock()
	if !f.loader.current(epoch) {
		f.mu.Unlock()
		f.log.Debug("discarding stale word set", zap.String("theme", theme), zap.Uint64("epoch", epoch))
		return
	}

	f.words = words
	f.position = 0
	if words.Empty() {
		f.phase = Empty
		f.log.Warn("no words for theme", zap.String("theme", theme), zap.Uint64("epoch", epoch))
	} else {
		f.phase = Browsing
		if f.speaker == nil && f.newSpeaker != nil {
			f.speaker = f.newSpeaker()
		}
	}
	f.mu.Unlock()

	f.notify()
}

// Next moves to the following card. It is a no-op on the last card.
func (f *Flashcard) Next() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != Browsing || f.position >= len(f.words)-1 {
		return false
	}
	f.position++
	f.flipped = false
	return true
}

// Prev moves to the preceding card. It is a no-op on the first card.
func (f *Flashcard) Prev() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != Browsing || f.position <= 0 {
		return false
	}
	f.position--
	f.flipped = false
	return true
}

// Flip turns the current card over
func (f *Flashcard) Flip() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.phase != Browsing {
		return false
	}
	f.flipped = !f.flipped
	return f.flipped
}

// Current returns the card being shown
func (f *Flashcard) Current() (vocab.WordItem, bool) {
	return f.State().Current()
}

// PlayCurrent speaks the current card's character in the background. It
// returns false when nothing was started: not browsing, no speaker, or
// speech already in flight.
func (f *Flashcard) PlayCurrent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loader.closed || f.phase != Browsing || f.speaker == nil || f.busy {
		return false
	}

	f.busy = true
	epoch := f.loader.epoch
	speaker := f.speaker
	text := f.words[f.position].Character

	f.loader.pending.Add(1)
	go func() {
		defer f.loader.pending.Done()
		if err := speaker.Speak(f.speakCtx, text); err != nil {
			f.log.Warn("speech failed", zap.String("text", text), zap.Uint64("epoch", epoch), zap.Error(err))
		}

		f.mu.Lock()
		if f.loader.current(epoch) {
			f.busy = false
		}
		f.mu.Unlock()
		f.notify()
	}()
	return true
}

// State returns a snapshot of the session
func (f *Flashcard) State() FlashcardState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FlashcardState{
		ID:        f.cfg.ID,
		Theme:     f.loader.theme,
		Phase:     f.phase,
		Words:     f.words.Clone(),
		Position:  f.position,
		Flipped:   f.flipped,
		AudioBusy: f.busy,
		Epoch:     f.loader.epoch,
	}
}

// Wait blocks until pending acquisitions and speech requests have finished
func (f *Flashcard) Wait() {
	f.loader.pending.Wait()
}

// Close ends the session: pending results are ignored and the output device
// is released. Speech already playing is not interrupted.
func (f *Flashcard) Close() error {
	f.mu.Lock()
	if f.loader.closed {
		f.mu.Unlock()
		return nil
	}
	f.loader.close()
	f.stopSpeak()
	speaker := f.speaker
	f.speaker = nil
	f.mu.Unlock()

	f.log.Debug("flashcard session closed")
	if speaker != nil {
		return speaker.Close()
	}
	return nil
}

func (f *Flashcard) notify() {
	if f.cfg.OnChange != nil {
		f.cfg.OnChange()
	}
}
