package vocab

import "strings"

// WordItem is one vocabulary entry. It is treated as immutable once an
// acquirer has produced it; Character identifies it within a set.
type WordItem struct {
	Character string `json:"character" validate:"required"` // simplified Chinese
	Pinyin    string `json:"pinyin" validate:"required"`
	English   string `json:"english" validate:"required"`
	Emoji     string `json:"emoji" validate:"required"`
	Sentence  string `json:"sentence" validate:"required"` // short example sentence in Chinese
}

// Normalize returns a copy of the item with surrounding whitespace removed
// from every field.
func (w WordItem) Normalize() WordItem {
	return WordItem{
		Character: strings.TrimSpace(w.Character),
		Pinyin:    strings.TrimSpace(w.Pinyin),
		English:   strings.TrimSpace(w.English),
		Emoji:     strings.TrimSpace(w.Emoji),
		Sentence:  strings.TrimSpace(w.Sentence),
	}
}

// WordSet is an ordered list of words produced by a single acquisition.
// An empty set signals that acquisition failed.
type WordSet []WordItem

// Len returns the number of words in the set
func (s WordSet) Len() int {
	return len(s)
}

// Empty reports whether the set holds no words
func (s WordSet) Empty() bool {
	return len(s) == 0
}

// Index returns the position of the word with the given character, or -1.
func (s WordSet) Index(character string) int {
	for i, w := range s {
		if w.Character == character {
			return i
		}
	}
	return -1
}

// Clone returns a copy that does not share its backing array with s.
func (s WordSet) Clone() WordSet {
	if s == nil {
		return nil
	}
	out := make(WordSet, len(s))
	copy(out, s)
	return out
}
