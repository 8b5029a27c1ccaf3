package wordlist

import (
	"context"
	"errors"
	"fmt"
)

// DefaultWordCount is how many words are requested per theme
const DefaultWordCount = 5

var (
	// ErrEmptyResponse is returned when the service answered without content
	ErrEmptyResponse = errors.New("empty response from content service")
	// ErrInvalidBatch is returned when the response does not match the word schema
	ErrInvalidBatch = errors.New("invalid word batch")
)

// Request describes one word list generation.
type Request struct {
	Theme string
	Count int
}

//go:generate mockgen -source=generator.go -destination=mock/generator_mock.go

// Generator produces the raw JSON array of word objects for a request.
type Generator interface {
	// Generate returns a JSON array of objects with the fields character,
	// pinyin, english, emoji and sentence.
	Generate(ctx context.Context, req Request) ([]byte, error)

	// Name returns the generator name
	Name() string
}

// Prompt renders the generation instructions for a request.
func Prompt(req Request) string {
	count := req.Count
	if count <= 0 {
		count = DefaultWordCount
	}
	return fmt.Sprintf(`Generate a list of %d simple, distinct Chinese words suitable for a 5-year-old child related to the theme "%s".
Include the Chinese character (simplified), Pinyin, English meaning, a relevant Emoji, and a very simple example sentence in Chinese.
Every word must be different from the others.`, count, req.Theme)
}

// wordFields lists the JSON properties every word object must carry
var wordFields = []string{"character", "pinyin", "english", "emoji", "sentence"}
