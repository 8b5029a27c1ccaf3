package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"codeberg.org/snonux/wordgarden/internal/session"
	"codeberg.org/snonux/wordgarden/internal/vocab"
)

// RenderHome lists the themes
func RenderHome(themes []vocab.Theme) string {
	st := NewStyles("")
	var b strings.Builder
	b.WriteString(st.Title.Render("🌱 wordgarden: pick a theme"))
	b.WriteString("\n\n")
	for i, t := range themes {
		line := fmt.Sprintf("%d. %s %s", i+1, t.Icon, t.Name)
		b.WriteString("  " + NewStyles(t.Color).Label.Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(st.Help.Render("learn <theme|n> · quiz <theme|n> · quit"))
	return b.String()
}

// RenderLoading is shown while a word set is on its way
func RenderLoading(theme vocab.Theme) string {
	st := NewStyles(theme.Color)
	return st.Title.Render(fmt.Sprintf("%s %s", theme.Icon, theme.Name)) + "\n\n  " +
		st.Help.Render("Growing new words...")
}

// RenderEmpty offers a retry after a failed acquisition
func RenderEmpty(theme vocab.Theme) string {
	st := NewStyles(theme.Color)
	return st.Title.Render(fmt.Sprintf("%s %s", theme.Icon, theme.Name)) + "\n\n  " +
		st.Danger.Render("No words this time.") + "\n\n" +
		st.Help.Render("r retry · b back · quit")
}

// RenderCard draws the current flashcard
func RenderCard(state session.FlashcardState, theme vocab.Theme) string {
	st := NewStyles(theme.Color)
	switch state.Phase {
	case session.Loading:
		return RenderLoading(theme)
	case session.Empty:
		return RenderEmpty(theme)
	}

	word, ok := state.Current()
	if !ok {
		return RenderLoading(theme)
	}
	n, total := state.Progress()

	var face string
	if state.Flipped {
		face = lipgloss.JoinVertical(lipgloss.Center,
			st.Big.Render(word.Pinyin),
			word.English,
			"",
			word.Sentence,
		)
	} else {
		face = lipgloss.JoinVertical(lipgloss.Center,
			word.Emoji,
			"",
			st.Big.Render(word.Character),
		)
	}

	speaker := "🔈"
	if state.AudioBusy {
		speaker = "🔊"
	}

	header := st.Title.Render(fmt.Sprintf("%s %s", theme.Icon, theme.Name)) +
		st.Help.Render(fmt.Sprintf("  %d / %d  %s", n, total, speaker))
	return header + "\n" + st.Card.Render(face) + "\n" +
		st.Help.Render("enter flip · n next · p prev · s say · b back · quit")
}

// RenderQuiz draws the current question, the reveal or the final score
func RenderQuiz(state session.QuizState, theme vocab.Theme) string {
	st := NewStyles(theme.Color)
	switch state.Phase {
	case session.Loading:
		return RenderLoading(theme)
	case session.Empty:
		return RenderEmpty(theme)
	case session.Finished:
		return renderScore(st, state, theme)
	}

	question, ok := state.Question()
	if !ok {
		return RenderLoading(theme)
	}
	n, total := state.Progress()

	header := st.Title.Render(fmt.Sprintf("%s %s", theme.Icon, theme.Name)) +
		st.Help.Render(fmt.Sprintf("  question %d / %d  ⭐ %d", n, total, state.Score))
	prompt := st.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
		st.Big.Render(question.Emoji),
		question.English,
	))

	options := make([]string, len(state.Options))
	for i, o := range state.Options {
		label := fmt.Sprintf("%d. %s", i+1, o.Character)
		style := st.Option
		if state.Phase == session.Revealing {
			switch {
			case o.Character == question.Character:
				style = style.BorderForeground(lipgloss.Color("#22c55e"))
				label += " ✓"
			case o.Character == state.Selected:
				style = style.BorderForeground(lipgloss.Color("#ef4444"))
				label += " ✗"
			}
		}
		options[i] = style.Render(label)
	}

	footer := st.Help.Render("type the number of the matching word · b back · quit")
	if state.Phase == session.Revealing && state.AnswerCorrect != nil {
		if *state.AnswerCorrect {
			footer = st.Success.Render("太棒了! Great job!")
		} else {
			footer = st.Danger.Render(fmt.Sprintf("Oops! It was %s (%s)", question.Character, question.Pinyin))
		}
	}

	return header + "\n" + prompt + "\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, options...) + "\n" + footer
}

func renderScore(st Styles, state session.QuizState, theme vocab.Theme) string {
	total := len(state.Words)
	msg := "Keep practicing!"
	if state.Score == total {
		msg = "Perfect score! 🎉"
	}
	return st.Title.Render(fmt.Sprintf("%s %s", theme.Icon, theme.Name)) + "\n" +
		st.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
			st.Big.Render(fmt.Sprintf("⭐ %d / %d", state.Score, total)),
			msg,
		)) + "\n" +
		st.Help.Render("r play again · b back · quit")
}
