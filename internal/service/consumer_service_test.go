package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionTitleFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short message used verbatim",
			input:    "What were you doing in 1998?",
			expected: "What were you doing in 1998?",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  hello there  ",
			expected: "hello there",
		},
		{
			name:     "newlines collapsed to spaces",
			input:    "first line\nsecond line",
			expected: "first line second line",
		},
		{
			name:     "long message truncated with ellipsis",
			input:    strings.Repeat("a", 60),
			expected: strings.Repeat("a", 40) + "...",
		},
		{
			name:     "multibyte runes counted as characters",
			input:    strings.Repeat("你", 45),
			expected: strings.Repeat("你", 40) + "...",
		},
		{
			name:     "empty message falls back to default",
			input:    "   ",
			expected: "Unnamed session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SessionTitleFrom(tt.input))
		})
	}
}
