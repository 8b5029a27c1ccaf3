package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Lister handles listing available models
type Lister struct {
	geminiKey string
	openaiKey string
	out       io.Writer
}

// NewLister creates a new model lister. Either key may be empty; that
// provider is then skipped.
func NewLister(geminiKey, openaiKey string) *Lister {
	return &Lister{
		geminiKey: geminiKey,
		openaiKey: openaiKey,
		out:       os.Stdout,
	}
}

// SetOutput redirects the listing
func (l *Lister) SetOutput(w io.Writer) {
	l.out = w
}

// Categories groups model names by what wordgarden can use them for
type Categories struct {
	Text   []string // word list generation
	Speech []string // text-to-speech
}

// ListAvailableModels prints the models of every configured provider
func (l *Lister) ListAvailableModels(ctx context.Context) error {
	if l.geminiKey == "" && l.openaiKey == "" {
		return fmt.Errorf("no API key found. Set GEMINI_API_KEY or OPENAI_API_KEY, or configure them in .wordgarden.yaml")
	}

	if l.geminiKey != "" {
		names, err := l.listGemini(ctx)
		if err != nil {
			return fmt.Errorf("failed to list Gemini models: %w", err)
		}
		l.print("Gemini", CategorizeGemini(names))
	}

	if l.openaiKey != "" {
		client := openai.NewClient(l.openaiKey)
		models, err := client.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("failed to list OpenAI models: %w", err)
		}
		ids := make([]string, 0, len(models.Models))
		for _, model := range models.Models {
			ids = append(ids, model.ID)
		}
		l.print("OpenAI", CategorizeOpenAI(ids))
	}

	return nil
}

func (l *Lister) listGemini(ctx context.Context) ([]string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  l.geminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	var names []string
	for model, err := range client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}
	return names, nil
}

// CategorizeGemini sorts Gemini model names into text and speech models
func CategorizeGemini(names []string) Categories {
	var c Categories
	for _, name := range names {
		switch {
		case strings.Contains(name, "tts"):
			c.Speech = append(c.Speech, name)
		case strings.HasPrefix(name, "gemini"):
			c.Text = append(c.Text, name)
		}
	}
	sort.Strings(c.Text)
	sort.Strings(c.Speech)
	return c
}

// CategorizeOpenAI sorts OpenAI model IDs into chat and speech models
func CategorizeOpenAI(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "audio") || strings.Contains(id, "realtime") || strings.Contains(id, "transcribe"):
			// not usable here
		case strings.Contains(id, "gpt"):
			c.Text = append(c.Text, id)
		}
	}
	sort.Strings(c.Text)
	sort.Strings(c.Speech)
	return c
}

func (l *Lister) print(provider string, c Categories) {
	fmt.Fprintf(l.out, "Available %s Models:\n", provider)

	fmt.Fprintln(l.out, "\nText-to-Speech Models:")
	if len(c.Speech) == 0 {
		fmt.Fprintln(l.out, "  No TTS models found")
	}
	for _, model := range c.Speech {
		fmt.Fprintf(l.out, "  %s\n", model)
	}

	fmt.Fprintln(l.out, "\nWord List Models:")
	shown := c.Text
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, model := range shown {
		fmt.Fprintf(l.out, "  %s\n", model)
	}
	if len(c.Text) > len(shown) {
		fmt.Fprintf(l.out, "  ... and %d more models\n", len(c.Text)-len(shown))
	}
	fmt.Fprintln(l.out)
}
