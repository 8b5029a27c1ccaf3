// Package vocab defines the vocabulary data model shared by the word list
// acquirer, the flashcard and quiz sessions: word items, word sets and the
// built-in theme catalog.
package vocab
