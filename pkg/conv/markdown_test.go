package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world\n"},
		{name: "bold text", input: "**bold**", expected: "<strong>bold</strong>\n"},
		{name: "strikethrough", input: "~~gone~~", expected: "<del>gone</del>\n"},
		{name: "inline code", input: "`code`", expected: "<code>code</code>\n"},
		{name: "header tags stripped", input: "# Statistics", expected: "Statistics\n"},
		{name: "script tags sanitized", input: "<script>alert('xss')</script>", expected: "\n"},
		{
			name:     "link keeps href only",
			input:    "[source](https://example.com)",
			expected: "<a href=\"https://example.com\">source</a>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToPlain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "emphasis removed", input: "**Entries**  ›  `12`", expected: "Entries  ›  12"},
		{name: "entities decoded", input: "Tom & Jerry", expected: "Tom & Jerry"},
		{name: "heading flattened", input: "# Learning", expected: "Learning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToPlain([]byte(tt.input)))
		})
	}
}
