package audio

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateChineseText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid Chinese word",
			text:    "苹果",
			wantErr: false,
		},
		{
			name:    "valid Chinese sentence",
			text:    "我喜欢吃苹果。",
			wantErr: false,
		},
		{
			name:    "mixed with latin",
			text:    "我有 3 个 apple",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "English text",
			text:    "Hello world",
			wantErr: true,
			errMsg:  "text must contain Chinese characters",
		},
		{
			name:    "pinyin only",
			text:    "píng guǒ",
			wantErr: true,
			errMsg:  "text must contain Chinese characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChineseText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChineseText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidText) {
					t.Errorf("ValidateChineseText() error = %v, want ErrInvalidText", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateChineseText() error = %v, want containing %v", err, tt.errMsg)
				}
			}
		})
	}
}
