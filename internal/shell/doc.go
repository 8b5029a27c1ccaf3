// Package shell is the terminal front end: a line-oriented loop over the
// home screen, flashcards and the quiz, rendered with lipgloss.
package shell
