package testutil

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"sync"
	"time"

	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// MockAcquirer mocks word set acquisition
type MockAcquirer struct {
	mu    sync.Mutex
	Sets  map[string]vocab.WordSet
	Gates map[string]chan struct{} // when present, Acquire waits for the gate to close
	Calls []string
}

// NewMockAcquirer creates an acquirer that answers from sets
func NewMockAcquirer(sets map[string]vocab.WordSet) *MockAcquirer {
	if sets == nil {
		sets = map[string]vocab.WordSet{}
	}
	return &MockAcquirer{Sets: sets, Gates: map[string]chan struct{}{}}
}

// Hold makes the next acquisitions of theme block until the returned
// function is called
func (m *MockAcquirer) Hold(theme string) (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.Gates[theme] = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// SetWords replaces the answer for a theme
func (m *MockAcquirer) SetWords(theme string, words vocab.WordSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets[theme] = words
}

// Acquire mocks acquiring a word set. Unknown themes yield an empty set.
func (m *MockAcquirer) Acquire(ctx context.Context, theme string) vocab.WordSet {
	m.mu.Lock()
	m.Calls = append(m.Calls, theme)
	gate := m.Gates[theme]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sets[theme].Clone()
}

// CallCount returns how many acquisitions were made
func (m *MockAcquirer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSpeaker mocks the speech pipeline of a session
type MockSpeaker struct {
	mu     sync.Mutex
	Err    error
	Gate   chan struct{} // when set, Speak waits for it to close
	Spoken []string
	closed int
}

// Speak records the text
func (m *MockSpeaker) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.Spoken = append(m.Spoken, text)
	gate := m.Gate
	err := m.Err
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return err
}

// Close records the release of the device
func (m *MockSpeaker) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// SpokenTexts returns everything spoken so far
func (m *MockSpeaker) SpokenTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Spoken...)
}

// Closed returns how often Close was called
func (m *MockSpeaker) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockSynthesizer answers every text with the same payload
type MockSynthesizer struct {
	mu      sync.Mutex
	Payload string
	Err     error
	Calls   []string
}

// Synthesize mocks speech synthesis
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Payload, nil
}

// ManualScheduler runs timers only when the test advances its clock
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers map[int]manualTimer
}

type manualTimer struct {
	at time.Duration
	f  func()
}

// NewManualScheduler creates a scheduler at time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{timers: map[int]manualTimer{}}
}

// AfterFunc registers f to run once the clock has advanced by d
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) (stop func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.timers[id] = manualTimer{at: s.now + d, f: f}
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, pending := s.timers[id]
		delete(s.timers, id)
		return pending
	}
}

// Advance moves the clock forward and runs every timer that became due,
// in deadline order
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []int
	for id, t := range s.timers {
		if t.at <= s.now {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool { return s.timers[due[i]].at < s.timers[due[j]].at })
	fns := make([]func(), 0, len(due))
	for _, id := range due {
		fns = append(fns, s.timers[id].f)
		delete(s.timers, id)
	}
	s.mu.Unlock()

	for _, f := range fns {
		f()
	}
}

// Pending returns the number of timers that have not fired or been stopped
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// TestDataGenerator generates test data
type TestDataGenerator struct{}

// Fruits returns a small valid word set
func (g *TestDataGenerator) Fruits() vocab.WordSet {
	return vocab.WordSet{
		{Character: "苹果", Pinyin: "píng guǒ", English: "apple", Emoji: "🍎", Sentence: "我喜欢吃苹果。"},
		{Character: "香蕉", Pinyin: "xiāng jiāo", English: "banana", Emoji: "🍌", Sentence: "香蕉是黄色的。"},
		{Character: "猫", Pinyin: "māo", English: "cat", Emoji: "🐱", Sentence: "小猫很可爱。"},
	}
}

// Words returns n distinct valid words
func (g *TestDataGenerator) Words(n int) vocab.WordSet {
	base := g.Fruits()
	out := make(vocab.WordSet, 0, n)
	for i := 0; i < n; i++ {
		w := base[i%len(base)]
		if i >= len(base) {
			w.Character = fmt.Sprintf("%s%d", w.Character, i)
		}
		out = append(out, w)
	}
	return out
}

// WordListJSON returns the generator response for Fruits
func (g *TestDataGenerator) WordListJSON() []byte {
	return []byte(`[
  {"character": "苹果", "pinyin": "píng guǒ", "english": "apple", "emoji": "🍎", "sentence": "我喜欢吃苹果。"},
  {"character": "香蕉", "pinyin": "xiāng jiāo", "english": "banana", "emoji": "🍌", "sentence": "香蕉是黄色的。"},
  {"character": "猫", "pinyin": "māo", "english": "cat", "emoji": "🐱", "sentence": "小猫很可爱。"}
]`)
}

// GeneratePCM encodes samples as base64 16-bit little-endian PCM
func (g *TestDataGenerator) GeneratePCM(samples ...int16) string {
	raw := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		raw = append(raw, byte(uint16(s)), byte(uint16(s)>>8))
	}
	return base64.StdEncoding.EncodeToString(raw)
}
