package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/session"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

var (
	// ErrUnknownTheme is returned for a theme ID outside the catalog
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrUnknownMode is returned for a mode that cannot be entered
	ErrUnknownMode = errors.New("unknown mode")
)

// Mode is what the user is doing
type Mode int

const (
	Home Mode = iota
	Learn
	Quiz
)

func (m Mode) String() string {
	switch m {
	case Home:
		return "home"
	case Learn:
		return "learn"
	case Quiz:
		return "quiz"
	}
	return "unknown"
}

// ParseMode converts "learn" or "quiz" into a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "learn":
		return Learn, nil
	case "quiz":
		return Quiz, nil
	case "home":
		return Home, nil
	}
	return Home, fmt.Errorf("%w: %s", ErrUnknownMode, s)
}

// Services are the collaborators every session is built from
type Services struct {
	Acquirer session.Acquirer

	// NewSpeaker creates the speech pipeline of one flashcard session, nil
	// for silent sessions
	NewSpeaker func() session.Speaker

	Dwell     time.Duration
	Scheduler session.Scheduler
	Rand      session.Rand
	Log       *zap.Logger

	// OnChange is called after asynchronous session updates
	OnChange func()
}

// Controller routes between home, flashcards and quiz
type Controller struct {
	mu         sync.Mutex
	svc        Services
	log        *zap.Logger
	mode       Mode
	theme      vocab.Theme
	sessionID  string
	generation uint64
	flashcard  *session.Flashcard
	quiz       *session.Quiz
	closed     bool
}

// New creates a controller on the home screen
func New(svc Services) *Controller {
	if svc.Log == nil {
		svc.Log = zap.NewNop()
	}
	if svc.Rand == nil {
		svc.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Controller{svc: svc, log: svc.Log, mode: Home}
}

// Enter starts a new session for mode and theme, closing the current one.
// Re-entering the same mode and theme starts over as well.
func (c *Controller) Enter(ctx context.Context, mode Mode, themeID string) error {
	theme, err := vocab.LookupTheme(themeID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, themeID)
	}
	if mode != Learn && mode != Quiz {
		return fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return session.ErrClosed
	}
	c.closeSession()

	c.generation++
	c.mode = mode
	c.theme = theme
	c.sessionID = uuid.NewString()

	cfg := session.Config{
		ID:       c.sessionID,
		Log:      c.log.With(zap.Uint64("generation", c.generation)),
		OnChange: c.svc.OnChange,
	}

	c.log.Info("entering session",
		zap.String("mode", mode.String()), zap.String("theme", theme.ID),
		zap.String("session", c.sessionID), zap.Uint64("generation", c.generation))

	switch mode {
	case Learn:
		c.flashcard = session.NewFlashcard(c.svc.Acquirer, c.svc.NewSpeaker, cfg)
		return c.flashcard.Load(ctx, theme.ID)
	default:
		c.quiz = session.NewQuiz(c.svc.Acquirer, session.QuizConfig{
			Config:    cfg,
			Dwell:     c.svc.Dwell,
			Scheduler: c.svc.Scheduler,
			Rand:      c.svc.Rand,
		})
		return c.quiz.Load(ctx, theme.ID)
	}
}

// Back closes the current session and returns to the home screen
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.closeSession()
	c.mode = Home
	c.theme = vocab.Theme{}
	c.sessionID = ""
	return err
}

// closeSession expects c.mu to be held
func (c *Controller) closeSession() error {
	var err error
	if c.flashcard != nil {
		err = c.flashcard.Close()
		c.flashcard = nil
	}
	if c.quiz != nil {
		err = errors.Join(err, c.quiz.Close())
		c.quiz = nil
	}
	if err != nil {
		c.log.Warn("closing session failed", zap.String("session", c.sessionID), zap.Error(err))
	}
	return err
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Theme returns the current theme, zero on the home screen
func (c *Controller) Theme() vocab.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// SessionID returns the id of the live session
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Flashcard returns the live flashcard session, nil outside Learn
func (c *Controller) Flashcard() *session.Flashcard {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flashcard
}

// Quiz returns the live quiz session, nil outside Quiz
func (c *Controller) Quiz() *session.Quiz {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz
}

// Close ends the live session; the controller cannot be used afterwards
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.mode = Home
	return c.closeSession()
}
