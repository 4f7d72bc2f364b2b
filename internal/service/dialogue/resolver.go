package dialogue

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pronounRefRe = regexp.MustCompile(`(?i)\b(it|its|they|their|them|those|these)\b`)

	bareContinuationRe = regexp.MustCompile(`(?i)^\s*(tell\s+me\s+more|more\s+(about\s+it|on\s+that|info|details?)|` +
		`go\s+on|continue|elaborate|expand(\s+on\s+that)?|what\s+else|` +
		`and\s+(what|how|why|when|who)\??|keep\s+going|more\s+please|` +
		`can\s+you\s+elaborate|explain\s+more|give\s+me\s+more|` +
		`what\s+(else|more)\s+(can|do|should)\s+i|` +
		`how\s+does\s+(it|that)\s+work|what\s+is\s+(it|that)(\s+used\s+for)?|` +
		`why\s+is\s+(it|that)\s+important|what\s+are\s+(its|their)\s+uses?)` +
		`\s*[?.!]?\s*$`)

	subjectPrefixRe = regexp.MustCompile(`(?i)^\s*(what\s+is\s+(a\s+|an\s+|the\s+)?|` +
		`explain\s+(what\s+is\s+)?|define\s+|meaning\s+of\s+|` +
		`tell\s+me\s+about\s+|describe\s+|` +
		`how\s+(do|does|did|can|do\s+i|to)\s+|` +
		`who\s+(is|was|invented|created|made|founded)\s+|` +
		`when\s+(was|did|is)\s+|where\s+(is|was|are)\s+|` +
		`what\s+are\s+(the\s+)?(main\s+|key\s+|best\s+|top\s+)?|` +
		`what\s+(makes?|causes?|happens?)\s+)`)
	subjectTailRe = regexp.MustCompile(`(?i)\s+(work|do|are|mean|help|come\s+from|used\s+for)\s*\??$`)
)

// Resolve makes a turn self-contained by substituting references to the
// last discussed topic.
func Resolve(text, lastTopic string) string {
	if lastTopic == "" {
		return text
	}

	q := strings.TrimSpace(text)
	if bareContinuationRe.MatchString(q) {
		return fmt.Sprintf("tell me more about %s", lastTopic)
	}
	if !pronounRefRe.MatchString(q) {
		return text
	}

	// One pass, so pronouns inside the substituted topic are left alone.
	q = pronounRefRe.ReplaceAllStringFunc(q, func(p string) string {
		switch strings.ToLower(p) {
		case "its", "their":
			return lastTopic + "'s"
		default:
			return lastTopic
		}
	})
	return strings.TrimSpace(q)
}

// ExtractSubject returns the core noun phrase of a query, used as the
// topic for later reference resolution.
func ExtractSubject(query string) string {
	trimmed := strings.TrimSpace(query)
	q := subjectPrefixRe.ReplaceAllString(trimmed, "")
	q = strings.TrimRight(strings.TrimSpace(q), "?.!")
	q = strings.TrimSpace(subjectTailRe.ReplaceAllString(q, ""))
	if q == "" {
		return strings.TrimRight(trimmed, "?.!")
	}
	return q
}
