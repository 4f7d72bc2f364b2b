package dialogue

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sandevgo/musage/internal/core"
)

var (
	howToLeadRe      = regexp.MustCompile(`(?i)^how\s+to\b`)
	definitionLeadRe = regexp.MustCompile(`(?i)^(what\s+is\s+(a\s+|an\s+|the\s+)?|define\s+|meaning\s+of\s+|explain\s+)`)
	yearRe           = regexp.MustCompile(`\b20[0-9]{2}\b`)
	comparisonWordRe = regexp.MustCompile(`(?i)differences?|comparison`)
)

const (
	anchorWords     = 10
	assistantPrefix = "Assistant:"
)

// RefineQuery rewrites a query into a search-friendly form for its intent.
// conversation is the rendered recent context, used to anchor follow-ups.
func RefineQuery(text string, intent core.Intent, conversation string, now time.Time) string {
	original := strings.TrimSpace(text)
	q := original

	if intent == core.IntentFollowUp {
		var last string
		for _, line := range strings.Split(conversation, "\n") {
			if strings.HasPrefix(line, assistantPrefix) {
				last = line
			}
		}
		if last == "" {
			return q
		}
		words := strings.Fields(strings.TrimPrefix(last, assistantPrefix))
		if len(words) > anchorWords {
			words = words[:anchorWords]
		}
		return strings.TrimSpace(strings.Join(words, " ") + " " + q)
	}

	if subject, ok := taskSubject(q); ok && subject != "" {
		q = subject
	}

	switch intent {
	case core.IntentHowTo:
		if !howToLeadRe.MatchString(q) {
			q = fmt.Sprintf("how to %s step by step", q)
		}
	case core.IntentDefinition:
		q = "what is " + strings.TrimSpace(definitionLeadRe.ReplaceAllString(q, ""))
	case core.IntentNews:
		if !yearRe.MatchString(q) {
			q = fmt.Sprintf("%s %d", q, now.Year())
		}
	case core.IntentComparison:
		if !comparisonWordRe.MatchString(q) {
			q += " comparison differences"
		}
	}

	if q = strings.TrimSpace(q); q == "" {
		return original
	}
	return q
}
