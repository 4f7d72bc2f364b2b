package instant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/musage/internal/core"
)

const testQA = `
entries:
  - question: "what is gravity"
    answer: "Gravity pulls masses together."
  - question: "capital of france"
    answer: "Paris."
`

func TestSimpleQA_TryAnswer(t *testing.T) {
	s := NewSimpleQAFrom([]byte(testQA), DefaultSimilarity)

	tests := []struct {
		name   string
		query  string
		want   string
		wantOK bool
	}{
		{"exact after normalization", "What is gravity?", "Gravity pulls masses together.", true},
		{"article dropped", "what is the gravity", "Gravity pulls masses together.", true},
		{"typo", "capital of frnace", "Paris.", true},
		{"too short", "ab", "", false},
		{"unrelated", "quantum chromodynamics", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.TryAnswer(context.Background(), tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSimpleQA_Defaults(t *testing.T) {
	s := NewSimpleQA()
	require.NoError(t, s.Available(context.Background()))
	assert.Equal(t, "simple_qa", s.Name())
	assert.Equal(t, core.SourceBuiltin, s.Source())

	got, ok := s.TryAnswer(context.Background(), "capital of france?")
	require.True(t, ok)
	assert.Contains(t, got, "Paris")
}

func TestNormalizeQA(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is gravity gravity?", "gravity"},
		{"tell me about the moon", "moon"},
		{"what is another planet", "another planet"},
		{"define  a   cell??", "cell"},
		{"capital of france", "capital of france"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeQA(tt.in), tt.in)
	}
}
