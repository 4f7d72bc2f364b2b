package synth

import (
	"regexp"
	"slices"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

var (
	versusRe       = regexp.MustCompile(`(?i)([\w\s]+?)\s+(?:vs\.?|versus|compared?\s+to|vs\s+)\s+([\w\s]+)`)
	comparisonStop = newSet("a", "an", "the", "is", "are", "and", "or", "of", "to")
)

func sideTerms(s string) set {
	out := set{}
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if !comparisonStop.has(w) {
			out[w] = struct{}{}
		}
	}
	return out
}

// extractComparison prefers sentences that mention both compared subjects,
// then those mentioning one of them.
func (s *Synthesizer) extractComparison(query, text string) string {
	left, right := set{}, set{}
	if m := versusRe.FindStringSubmatch(query); m != nil {
		left, right = sideTerms(m[1]), sideTerms(m[2])
	}

	var both, one, neither []string
	for _, sent := range splitSentences(text) {
		t := terms(sent)
		hasLeft, hasRight := left.overlap(t) > 0, right.overlap(t) > 0
		switch {
		case hasLeft && hasRight:
			both = append(both, sent)
		case hasLeft || hasRight:
			one = append(one, sent)
		default:
			neither = append(neither, sent)
		}
	}

	pool := headOf(slices.Concat(headOf(both, 4), headOf(one, 3)), 6)
	if len(pool) < 2 {
		pool = headOf(neither, 4)
	}
	if len(pool) == 0 {
		answer, _ := s.Synthesize(query, text, core.IntentGeneral)
		return answer
	}

	seen := set{}
	var unique []string
	for _, sent := range pool {
		k := strings.ToLower(prefix(sent, dedupKeyLength))
		if seen.has(k) {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, sent)
	}
	return strings.Join(groupParagraphs(headOf(unique, 5)), "\n\n")
}
