package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/musage/internal/core"
)

func TestRefineQuery(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	conversation := "User: what is go\n" +
		"Assistant: Go is a statically typed compiled language designed at Google by Robert Griesemer\n" +
		"User: tell me more"

	tests := []struct {
		name         string
		input        string
		intent       core.Intent
		conversation string
		expected     string
	}{
		{
			name:         "follow-up anchored on last answer",
			input:        "tell me more",
			intent:       core.IntentFollowUp,
			conversation: conversation,
			expected:     "Go is a statically typed compiled language designed at Google tell me more",
		},
		{
			name:     "follow-up without context",
			input:    "tell me more",
			intent:   core.IntentFollowUp,
			expected: "tell me more",
		},
		{
			name:     "how-to from task request",
			input:    "can you install docker",
			intent:   core.IntentHowTo,
			expected: "how to install docker step by step",
		},
		{
			name:     "how-to already phrased",
			input:    "how to install docker",
			intent:   core.IntentHowTo,
			expected: "how to install docker",
		},
		{
			name:     "definition",
			input:    "what is a monad",
			intent:   core.IntentDefinition,
			expected: "what is monad",
		},
		{
			name:     "definition from define",
			input:    "define entropy",
			intent:   core.IntentDefinition,
			expected: "what is entropy",
		},
		{
			name:     "news gets year",
			input:    "latest AI news",
			intent:   core.IntentNews,
			expected: "latest AI news 2026",
		},
		{
			name:     "news keeps year",
			input:    "AI news 2025",
			intent:   core.IntentNews,
			expected: "AI news 2025",
		},
		{
			name:     "comparison",
			input:    "python vs go",
			intent:   core.IntentComparison,
			expected: "python vs go comparison differences",
		},
		{
			name:     "comparison already worded",
			input:    "difference between tcp and udp",
			intent:   core.IntentComparison,
			expected: "difference between tcp and udp",
		},
		{
			name:     "general",
			input:    "  rust lifetimes ",
			intent:   core.IntentGeneral,
			expected: "rust lifetimes",
		},
		{
			name:     "never empty",
			input:    "please",
			intent:   core.IntentGeneral,
			expected: "please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RefineQuery(tt.input, tt.intent, tt.conversation, now))
		})
	}
}
