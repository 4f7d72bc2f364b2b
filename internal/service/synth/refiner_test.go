package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefiner(t *testing.T) {
	r := Refiner{}

	tests := []struct {
		name     string
		query    string
		answer   string
		issues   []string
		subject  set
		expected string
	}{
		{
			name:     "orphaned pronoun replaced with subject",
			query:    "what is quantum computing",
			answer:   "It is a type of computation that uses qubits. It scales differently.",
			issues:   []string{IssueOrphanedPronoun},
			subject:  newSet("computing", "quantum"),
			expected: "Quantum Computing is a type of computation that uses qubits. It scales differently.",
		},
		{
			name:     "orphaned pronoun without subject terms",
			query:    "what is it",
			answer:   "It is unclear.",
			issues:   []string{IssueOrphanedPronoun},
			subject:  newSet(),
			expected: "It is unclear.",
		},
		{
			name:     "example transition",
			query:    "python",
			answer:   "Python is a language.\n\nPython has libraries such as NumPy.",
			issues:   []string{IssueLacksTransitions},
			expected: "Python is a language.\n\nFor example, python has libraries such as NumPy.",
		},
		{
			name:     "additive transition",
			query:    "python",
			answer:   "Python is a language.\n\nPython runs on many platforms.",
			issues:   []string{IssueLacksTransitions},
			expected: "Python is a language.\n\nAdditionally, python runs on many platforms.",
		},
		{
			name:     "existing transition kept",
			query:    "python",
			answer:   "Python is a language.\n\nHowever, it is slow.",
			issues:   []string{IssueLacksTransitions},
			expected: "Python is a language.\n\nHowever, it is slow.",
		},
		{
			name:  "redundancy removed",
			query: "python",
			answer: "Python is a popular programming language for data science. " +
				"Python is a popular programming language for data analysis. " +
				"Python is a popular programming language for machine learning.",
			issues:   []string{IssueRedundantSentences},
			expected: "Python is a popular programming language for data science.",
		},
		{
			name:     "definition moved first",
			query:    "what is go",
			answer:   "Many developers enjoy it. Go is a programming language. It is fast.",
			issues:   []string{IssueMissingDefinition},
			expected: "Go is a programming language. Many developers enjoy it. It is fast.",
		},
		{
			name:     "no issues leaves answer",
			query:    "go",
			answer:   "Go is a programming language.",
			expected: "Go is a programming language.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Refine(tt.query, tt.answer, tt.issues, tt.subject))
		})
	}
}
