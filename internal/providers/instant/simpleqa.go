package instant

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/textsim"
)

//go:embed data/qa.yaml
var qaData []byte

const (
	DefaultSimilarity = 0.75
	minQueryLen       = 3
)

var qaPrefixRe = regexp.MustCompile(`^(what is|what are|what does|tell me about|explain|define|describe)\s+(?:(the|a|an)\s+)?`)

type qaEntry struct {
	key    string
	answer string
}

// SimpleQA answers short factual questions by fuzzy match against a small
// table of normalized questions.
type SimpleQA struct {
	entries   []qaEntry
	threshold float64
	err       error
}

func NewSimpleQA() *SimpleQA {
	return NewSimpleQAFrom(qaData, DefaultSimilarity)
}

func NewSimpleQAFrom(data []byte, threshold float64) *SimpleQA {
	s := &SimpleQA{threshold: threshold}
	var entries []entry
	entries, s.err = parseTable(data)
	for _, e := range entries {
		s.entries = append(s.entries, qaEntry{key: normalizeQA(e.Question), answer: e.Answer})
	}
	return s
}

func (s *SimpleQA) Name() string { return "simple_qa" }

func (s *SimpleQA) Source() core.AnswerSource { return core.SourceBuiltin }

func (s *SimpleQA) Available(context.Context) error {
	if s.err != nil {
		return fmt.Errorf("%w: %w", core.ErrUnavailable, s.err)
	}
	return nil
}

func (s *SimpleQA) TryAnswer(_ context.Context, query string) (string, bool) {
	if len(query) < minQueryLen {
		return "", false
	}
	q := normalizeQA(query)

	for _, e := range s.entries {
		if e.key == q {
			return e.answer, true
		}
	}

	var (
		best      string
		bestScore float64
	)
	for _, e := range s.entries {
		if score := textsim.Ratio(q, e.key); score > bestScore {
			best, bestScore = e.answer, score
		}
	}
	if bestScore >= s.threshold {
		return best, true
	}
	return "", false
}

// normalizeQA strips question framing and repeated words, so
// "What is gravity gravity?" becomes "gravity".
func normalizeQA(q string) string {
	q = strings.TrimSpace(strings.ToLower(q))
	q = trailingQuestionRe.ReplaceAllString(q, "")
	q = strings.TrimSpace(qaPrefixRe.ReplaceAllString(q, ""))

	var (
		out  []string
		prev string
	)
	for _, w := range strings.Fields(q) {
		if w != prev {
			out = append(out, w)
		}
		prev = w
	}
	return strings.Join(out, " ")
}
