package session

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/vocab"
)

const (
	// DefaultDwell is how long an answered question stays revealed
	DefaultDwell = 1500 * time.Millisecond
	// MaxDistractors is the number of wrong options per question
	MaxDistractors = 2
)

// Rand is the randomness a quiz needs; *rand.Rand satisfies it
type Rand interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) Perm(n int) []int                   { return rand.Perm(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// QuizConfig configures a quiz session
type QuizConfig struct {
	Config
	Dwell     time.Duration
	Scheduler Scheduler
	Rand      Rand
}

// QuizState is a snapshot of a quiz session
type QuizState struct {
	ID            string
	Theme         string
	Phase         Phase
	Words         vocab.WordSet
	QuestionIndex int
	Score         int
	Options       vocab.WordSet
	Selected      string // character picked while revealing
	AnswerCorrect *bool  // set only while revealing
	Epoch         uint64
}

// Finished reports whether every question has been answered
func (s QuizState) Finished() bool {
	return s.Phase == Finished
}

// Question returns the word being asked about
func (s QuizState) Question() (vocab.WordItem, bool) {
	if (s.Phase != Asking && s.Phase != Revealing) || s.QuestionIndex >= len(s.Words) {
		return vocab.WordItem{}, false
	}
	return s.Words[s.QuestionIndex], true
}

// Progress returns the 1-based question number and the number of questions
func (s QuizState) Progress() (int, int) {
	if s.Phase == Finished {
		return len(s.Words), len(s.Words)
	}
	if s.Phase != Asking && s.Phase != Revealing {
		return 0, len(s.Words)
	}
	return s.QuestionIndex + 1, len(s.Words)
}

// Quiz asks one multiple-choice question per word
type Quiz struct {
	mu        sync.Mutex
	cfg       QuizConfig
	log       *zap.Logger
	loader    loader
	phase     Phase
	words     vocab.WordSet
	index     int
	score     int
	options   vocab.WordSet
	selected  string
	correct   *bool
	stopDwell func() bool
}

// NewQuiz creates a quiz in the Loading phase
func NewQuiz(acq Acquirer, cfg QuizConfig) *Quiz {
	if cfg.Dwell <= 0 {
		cfg.Dwell = DefaultDwell
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = SystemScheduler
	}
	if cfg.Rand == nil {
		cfg.Rand = globalRand{}
	}
	return &Quiz{
		cfg:    cfg,
		log:    cfg.logger().With(zap.String("session", cfg.ID), zap.String("mode", "quiz")),
		loader: loader{acq: acq},
		phase:  Loading,
	}
}

// Load acquires a fresh word set for theme and restarts the quiz
func (q *Quiz) Load(ctx context.Context, theme string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.loader.closed {
		return ErrClosed
	}
	q.startLoad(ctx, theme)
	return nil
}

// Retry re-acquires words for the current theme. It is allowed when the
// quiz is empty or finished (play again).
func (q *Quiz) Retry(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.loader.closed {
		return ErrClosed
	}
	if q.phase != Empty && q.phase != Finished {
		return ErrNotRetryable
	}
	q.startLoad(ctx, q.loader.theme)
	return nil
}

// startLoad expects q.mu to be held
func (q *Quiz) startLoad(ctx context.Context, theme string) {
	q.cancelDwell()
	ctx, epoch := q.loader.begin(ctx, theme)
	q.phase = Loading
	q.words = nil
	q.index = 0
	q.score = 0
	q.options = nil
	q.selected = ""
	q.correct = nil

	q.log.Debug("loading word set", zap.String("theme", theme), zap.Uint64("epoch", epoch))

	q.loader.pending.Add(1)
	go func() {
		defer q.loader.pending.Done()
		words := q.loader.acq.Acquire(ctx, theme)
		q.finishLoad(epoch, theme, words)
	}()
}

func (q *Quiz) finishLoad(epoch uint64, theme string, words vocab.WordSet) {
	q.mu.Lock()
	if !q.loader.current(epoch) {
		q.mu.Unlock()
		q.log.Debug("discarding stale word set", zap.String("theme", theme), zap.Uint64("epoch", epoch))
		return
	}

	q.words = words
	if words.Empty() {
		q.phase = Empty
		q.log.Warn("no words for theme", zap.String("theme", theme), zap.Uint64("epoch", epoch))
	} else {
		q.phase = Asking
		q.index = 0
		q.score = 0
		q.options = q.drawOptions(0)
	}
	q.mu.Unlock()

	q.notify()
}

// drawOptions builds the shuffled option set for question i. It expects
// q.mu to be held.
func (q *Quiz) drawOptions(i int) vocab.WordSet {
	answer := q.words[i]

	seen := map[string]bool{answer.Character: true}
	var pool vocab.WordSet
	for _, w := range q.words {
		if seen[w.Character] {
			continue
		}
		seen[w.Character] = true
		pool = append(pool, w)
	}

	options := vocab.WordSet{answer}
	for _, j := range q.cfg.Rand.Perm(len(pool)) {
		if len(options) > MaxDistractors {
			break
		}
		options = append(options, pool[j])
	}

	q.cfg.Rand.Shuffle(len(options), func(a, b int) {
		options[a], options[b] = options[b], options[a]
	})
	return options
}

// Options returns the choices for the current question
func (q *Quiz) Options() vocab.WordSet {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.options.Clone()
}

// Answer scores the first answer to the current question. It reports
// whether the answer was accepted and whether it was correct; answers
// outside of Asking or not among the options are ignored.
func (q *Quiz) Answer(character string) (accepted, correct bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.loader.closed || q.phase != Asking || q.options.Index(character) < 0 {
		return false, false
	}

	correct = character == q.words[q.index].Character
	if correct {
		q.score++
	}
	q.selected = character
	q.correct = &correct
	q.phase = Revealing

	epoch, index := q.loader.epoch, q.index
	q.stopDwell = q.cfg.Scheduler.AfterFunc(q.cfg.Dwell, func() {
		q.advance(epoch, index)
	})

	q.log.Debug("question answered",
		zap.Int("question", index), zap.Bool("correct", correct), zap.Int("score", q.score))
	return true, correct
}

// advance leaves Revealing once the dwell time has passed
func (q *Quiz) advance(epoch uint64, index int) {
	q.mu.Lock()
	if !q.loader.current(epoch) || q.phase != Revealing || q.index != index {
		q.mu.Unlock()
		return
	}

	q.stopDwell = nil
	q.selected = ""
	q.correct = nil
	if index+1 < len(q.words) {
		q.index = index + 1
		q.phase = Asking
		q.options = q.drawOptions(q.index)
	} else {
		q.index = len(q.words)
		q.phase = Finished
		q.options = nil
		q.log.Info("quiz finished", zap.Int("score", q.score), zap.Int("questions", len(q.words)))
	}
	q.mu.Unlock()

	q.notify()
}

// cancelDwell expects q.mu to be held
func (q *Quiz) cancelDwell() {
	if q.stopDwell != nil {
		q.stopDwell()
		q.stopDwell = nil
	}
}

// State returns a snapshot of the quiz
func (q *Quiz) State() QuizState {
	q.mu.Lock()
	defer q.mu.Unlock()

	var correct *bool
	if q.correct != nil {
		c := *q.correct
		correct = &c
	}
	return QuizState{
		ID:            q.cfg.ID,
		Theme:         q.loader.theme,
		Phase:         q.phase,
		Words:         q.words.Clone(),
		QuestionIndex: q.index,
		Score:         q.score,
		Options:       q.options.Clone(),
		Selected:      q.selected,
		AnswerCorrect: correct,
		Epoch:         q.loader.epoch,
	}
}

// Wait blocks until pending acquisitions have finished
func (q *Quiz) Wait() {
	q.loader.pending.Wait()
}

// Close ends the quiz and stops the dwell timer
func (q *Quiz) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.loader.closed {
		return nil
	}
	q.cancelDwell()
	q.loader.close()
	q.log.Debug("quiz session closed")
	return nil
}

func (q *Quiz) notify() {
	if q.cfg.OnChange != nil {
		q.cfg.OnChange()
	}
}
