// Package session holds the per-theme learning state machines.
//
// A Flashcard session walks through a word set one card at a time and can
// speak the current card. A Quiz session asks one multiple-choice question
// per word and keeps score. Both acquire their words asynchronously; every
// completion carries the epoch it was started under and is dropped once the
// session has been reloaded or closed.
package session
