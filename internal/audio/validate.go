package audio

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidText marks text that no provider should be asked to speak
var ErrInvalidText = errors.New("invalid speech text")

// ValidateChineseText validates that the input text contains Chinese characters
func ValidateChineseText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrInvalidText)
	}

	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return nil
		}
	}

	return fmt.Errorf("%w: text must contain Chinese characters", ErrInvalidText)
}
