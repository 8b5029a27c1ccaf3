package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordgarden/internal/cli"
	"codeberg.org/snonux/wordgarden/internal/session"
	"codeberg.org/snonux/wordgarden/internal/testutil"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

var data testutil.TestDataGenerator

type fixture struct {
	ctrl     *Controller
	acq      *testutil.MockAcquirer
	speakers []*testutil.MockSpeaker
	sched    *testutil.ManualScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		acq: testutil.NewMockAcquirer(map[string]vocab.WordSet{
			"animals": data.Words(5),
			"fruits":  data.Fruits(),
		}),
		sched: testutil.NewManualScheduler(),
	}
	f.ctrl = New(Services{
		Acquirer: f.acq,
		NewSpeaker: func() session.Speaker {
			s := &testutil.MockSpeaker{}
			f.speakers = append(f.speakers, s)
			return s
		},
		Scheduler: f.sched,
		Log:       zap.NewNop(),
	})
	t.Cleanup(func() { f.ctrl.Close() })
	return f
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"learn", Learn, false},
		{"quiz", Quiz, false},
		{"home", Home, false},
		{"draw", Home, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownMode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
	}
}

func TestEnter_Validation(t *testing.T) {
	f := newFixture(t)

	err := f.ctrl.Enter(context.Background(), Learn, "dinosaurs")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	err = f.ctrl.Enter(context.Background(), Home, "animals")
	assert.ErrorIs(t, err, ErrUnknownMode)

	assert.Equal(t, Home, f.ctrl.Mode())
	assert.Zero(t, f.acq.CallCount())
}

func TestEnter_Learn(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.Enter(context.Background(), Learn, "fruits"))
	assert.Equal(t, Learn, f.ctrl.Mode())
	assert.Equal(t, "fruits", f.ctrl.Theme().ID)
	assert.NotEmpty(t, f.ctrl.SessionID())
	assert.Nil(t, f.ctrl.Quiz())

	fc := f.ctrl.Flashcard()
	require.NotNil(t, fc)
	fc.Wait()
	state := fc.State()
	assert.Equal(t, session.Browsing, state.Phase)
	assert.Equal(t, f.ctrl.SessionID(), state.ID)
}

func TestEnter_SwitchClosesPreviousSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Enter(ctx, Learn, "fruits"))
	first := f.ctrl.Flashcard()
	first.Wait()
	firstID := f.ctrl.SessionID()
	require.Len(t, f.speakers, 1)

	require.NoError(t, f.ctrl.Enter(ctx, Quiz, "animals"))
	assert.NotEqual(t, firstID, f.ctrl.SessionID())
	assert.Nil(t, f.ctrl.Flashcard())
	assert.Equal(t, 1, f.speakers[0].Closed(), "the old output device is released")
	assert.ErrorIs(t, first.Load(ctx, "fruits"), session.ErrClosed)

	q := f.ctrl.Quiz()
	require.NotNil(t, q)
	q.Wait()
	assert.Equal(t, session.Asking, q.State().Phase)
	assert.Len(t, q.State().Words, 5)
}

func TestEnter_StaleThemeDoesNotLeak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := f.acq.Hold("animals")

	require.NoError(t, f.ctrl.Enter(ctx, Learn, "animals"))
	stale := f.ctrl.Flashcard()
	require.NoError(t, f.ctrl.Enter(ctx, Learn, "fruits"))
	current := f.ctrl.Flashcard()
	current.Wait()

	release()
	stale.Wait()

	state := current.State()
	assert.Equal(t, "fruits", state.Theme)
	assert.Equal(t, data.Fruits(), state.Words)
	assert.Equal(t, session.Loading, stale.State().Phase)
}

func TestBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Enter(ctx, Quiz, "fruits"))
	q := f.ctrl.Quiz()
	q.Wait()
	q.Answer("苹果")
	require.Equal(t, 1, f.sched.Pending())

	require.NoError(t, f.ctrl.Back())
	assert.Equal(t, Home, f.ctrl.Mode())
	assert.Empty(t, f.ctrl.SessionID())
	assert.Nil(t, f.ctrl.Quiz())
	assert.Zero(t, f.sched.Pending(), "the dwell timer is cancelled")
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Enter(ctx, Learn, "fruits"))
	f.ctrl.Flashcard().Wait()

	require.NoError(t, f.ctrl.Close())
	require.NoError(t, f.ctrl.Close())
	assert.Equal(t, 1, f.speakers[0].Closed())
	assert.ErrorIs(t, f.ctrl.Enter(ctx, Learn, "fruits"), session.ErrClosed)
}

func TestQuizDwellFromServices(t *testing.T) {
	f := newFixture(t)
	f.ctrl.svc.Dwell = 3 * time.Second

	require.NoError(t, f.ctrl.Enter(context.Background(), Quiz, "fruits"))
	q := f.ctrl.Quiz()
	q.Wait()
	q.Answer("苹果")

	f.sched.Advance(session.DefaultDwell)
	assert.Equal(t, session.Revealing, q.State().Phase)
	f.sched.Advance(3*time.Second - session.DefaultDwell)
	assert.Equal(t, session.Asking, q.State().Phase)
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name     string
		settings cli.Settings
		wantName string
		wantErr  string
	}{
		{
			name:     "openai",
			settings: cli.Settings{ContentProvider: "openai", OpenAIKey: "k", OpenAIModel: "gpt-4o-mini"},
			wantName: "openai",
		},
		{
			name:     "gemini",
			settings: cli.Settings{ContentProvider: "gemini", GeminiKey: "k", GeminiModel: "gemini-2.5-flash"},
			wantName: "gemini",
		},
		{
			name:     "openai without key",
			settings: cli.Settings{ContentProvider: "openai"},
			wantErr:  "OpenAI API key is required",
		},
		{
			name:     "gemini without key",
			settings: cli.Settings{ContentProvider: "gemini"},
			wantErr:  "Gemini API key is required",
		},
		{
			name:     "unknown",
			settings: cli.Settings{ContentProvider: "llama"},
			wantErr:  "unknown content provider: llama",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(context.Background(), &tt.settings)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, gen.Name())
		})
	}
}

func TestWire(t *testing.T) {
	s := &cli.Settings{
		ContentProvider: "openai",
		OpenAIKey:       "k",
		OpenAIModel:     "gpt-4o-mini",
		WordCount:       5,
		SpeechProvider:  "openai",
		OpenAITTSModel:  "tts-1",
		OpenAIVoice:     "nova",
		OpenAISpeed:     1,
		SpeechCache:     true,
		CachePath:       t.TempDir() + "/speech.db",
		Device:          "none",
		Dwell:           time.Second,
	}

	w, err := Wire(context.Background(), s, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NotNil(t, w.Speech)
	require.NotNil(t, w.Services.NewSpeaker)
	assert.Equal(t, time.Second, w.Services.Dwell)
	assert.NotNil(t, w.Services.Acquirer)

	pipeline := w.NewPipeline()
	assert.NotNil(t, pipeline.Device())
}

func TestWire_SilentWithoutSpeechKey(t *testing.T) {
	s := &cli.Settings{
		ContentProvider: "openai",
		OpenAIKey:       "k",
		SpeechProvider:  "gemini",
		Device:          "none",
	}

	w, err := Wire(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Nil(t, w.Speech)
	assert.Nil(t, w.Services.NewSpeaker)
	assert.NoError(t, w.Close())
}

func TestWire_NoContentProvider(t *testing.T) {
	_, err := Wire(context.Background(), &cli.Settings{ContentProvider: "gemini"}, nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownTheme))
}
