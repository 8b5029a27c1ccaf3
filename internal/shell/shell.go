package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/controller"
	"codeberg.org/snonux/wordgarden/internal/session"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// DefaultPoll bounds how long the shell waits for a change notification
// before looking at the session again
const DefaultPoll = 250 * time.Millisecond

var errQuit = errors.New("quit")

// Shell reads one command per line and redraws the screen after each
type Shell struct {
	in      *bufio.Scanner
	out     io.Writer
	log     *zap.Logger
	changes chan struct{}
	poll    time.Duration
}

// New creates a shell reading from in and drawing to out
func New(in io.Reader, out io.Writer, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		log:     log,
		changes: make(chan struct{}, 1),
		poll:    DefaultPoll,
	}
}

// Changed wakes up a shell waiting for a session. It never blocks and is
// meant to be used as the controller's OnChange hook.
func (s *Shell) Changed() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Start enters mode and theme, then runs the shell
func (s *Shell) Start(ctx context.Context, ctrl *controller.Controller, mode controller.Mode, theme string) error {
	if mode != controller.Home {
		if err := ctrl.Enter(ctx, mode, theme); err != nil {
			return err
		}
	}
	return s.Run(ctx, ctrl)
}

// Run draws the current screen and handles commands until quit, end of
// input or ctx is done
func (s *Shell) Run(ctx context.Context, ctrl *controller.Controller) error {
	for {
		if err := s.settle(ctx, ctrl); err != nil {
			return err
		}
		s.draw(ctrl)

		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		err := s.dispatch(ctx, ctrl, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			s.log.Debug("command failed", zap.String("line", line), zap.Error(err))
			fmt.Fprintln(s.out, NewStyles("red").Danger.Render(err.Error()))
		}
	}
}

func (s *Shell) readLine() (string, bool) {
	fmt.Fprint(s.out, "> ")
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// settle waits while the live session is loading or revealing an answer
func (s *Shell) settle(ctx context.Context, ctrl *controller.Controller) error {
	for busy(ctrl) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.changes:
		case <-time.After(s.poll):
		}
	}
	return nil
}

func busy(ctrl *controller.Controller) bool {
	switch ctrl.Mode() {
	case controller.Learn:
		if f := ctrl.Flashcard(); f != nil {
			return f.State().Phase == session.Loading
		}
	case controller.Quiz:
		if q := ctrl.Quiz(); q != nil {
			p := q.State().Phase
			return p == session.Loading || p == session.Revealing
		}
	}
	return false
}

func (s *Shell) draw(ctrl *controller.Controller) {
	var screen string
	switch ctrl.Mode() {
	case controller.Learn:
		if f := ctrl.Flashcard(); f != nil {
			screen = RenderCard(f.State(), ctrl.Theme())
		}
	case controller.Quiz:
		if q := ctrl.Quiz(); q != nil {
			screen = RenderQuiz(q.State(), ctrl.Theme())
		}
	}
	if screen == "" {
		screen = RenderHome(vocab.Themes)
	}
	fmt.Fprintln(s.out, screen)
}

func (s *Shell) dispatch(ctx context.Context, ctrl *controller.Controller, line string) error {
	fields := strings.Fields(line)
	cmd := ""
	if len(fields) > 0 {
		cmd = strings.ToLower(fields[0])
	}
	if cmd == "quit" || cmd == "q" || cmd == "exit" {
		return errQuit
	}

	switch ctrl.Mode() {
	case controller.Learn:
		return s.learn(ctx, ctrl, cmd)
	case controller.Quiz:
		return s.quiz(ctx, ctrl, cmd, line)
	default:
		return s.home(ctx, ctrl, fields)
	}
}

func (s *Shell) home(ctx context.Context, ctrl *controller.Controller, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	mode, err := controller.ParseMode(strings.ToLower(fields[0]))
	if err != nil || mode == controller.Home {
		return fmt.Errorf("unknown command: %s", fields[0])
	}
	if len(fields) != 2 {
		return fmt.Errorf("usage: %s <theme>", mode)
	}
	return ctrl.Enter(ctx, mode, resolveTheme(fields[1]))
}

// resolveTheme accepts a theme ID or its 1-based catalog position
func resolveTheme(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(vocab.Themes) {
		return vocab.Themes[n-1].ID
	}
	return strings.ToLower(arg)
}

func (s *Shell) learn(ctx context.Context, ctrl *controller.Controller, cmd string) error {
	f := ctrl.Flashcard()
	if f == nil {
		return ctrl.Back()
	}

	switch cmd {
	case "n", "next":
		f.Next()
	case "p", "prev":
		f.Prev()
	case "", "f", "flip":
		f.Flip()
	case "s", "say":
		if !f.PlayCurrent() {
			s.log.Debug("playback refused", zap.String("session", ctrl.SessionID()))
		}
	case "r", "retry":
		return f.Retry(ctx)
	case "b", "back":
		return ctrl.Back()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func (s *Shell) quiz(ctx context.Context, ctrl *controller.Controller, cmd, line string) error {
	q := ctrl.Quiz()
	if q == nil {
		return ctrl.Back()
	}

	switch cmd {
	case "":
		return nil
	case "r", "retry", "again":
		return q.Retry(ctx)
	case "b", "back":
		return ctrl.Back()
	}

	state := q.State()
	choice := line
	if n, err := strconv.Atoi(cmd); err == nil {
		if n < 1 || n > len(state.Options) {
			return fmt.Errorf("pick 1 to %d", len(state.Options))
		}
		choice = state.Options[n-1].Character
	}

	if accepted, _ := q.Answer(choice); !accepted {
		return fmt.Errorf("not an option: %s", line)
	}
	fmt.Fprintln(s.out, RenderQuiz(q.State(), ctrl.Theme()))
	return nil
}
