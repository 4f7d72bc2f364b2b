package dialogue

import (
	"strings"
	"sync/atomic"

	"github.com/sandevgo/musage/internal/core"
)

// Classifier maps utterances to conversational categories and task intents.
// Its rules can be swapped at runtime; every call sees one consistent set.
type Classifier struct {
	rules atomic.Pointer[Rules]
}

func NewClassifier(rules *Rules) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	c := &Classifier{}
	c.rules.Store(rules)
	return c
}

func (c *Classifier) Swap(rules *Rules) {
	c.rules.Store(rules)
}

// Conversational returns the first category whose pattern matches the
// trimmed text. ok is false for real content queries.
func (c *Classifier) Conversational(text string) (core.Category, bool) {
	q := strings.TrimSpace(text)
	for _, r := range c.rules.Load().conversational {
		if r.matches(q) {
			return core.Category(r.name), true
		}
	}
	return "", false
}

// Intent classifies a content query, defaulting to IntentGeneral.
func (c *Classifier) Intent(text string) core.Intent {
	q := strings.TrimSpace(text)
	for _, r := range c.rules.Load().intents {
		if r.matches(q) {
			return core.Intent(r.name)
		}
	}
	return core.IntentGeneral
}

func (c *Classifier) Affirmative(text string) bool {
	return c.rules.Load().affirmative.matches(strings.TrimSpace(text))
}

func (c *Classifier) Negative(text string) bool {
	return c.rules.Load().negative.matches(strings.TrimSpace(text))
}

// IsAck reports whether text is a bare acknowledgment.
func (c *Classifier) IsAck(text string) bool {
	q := strings.TrimSpace(text)
	for _, r := range c.rules.Load().conversational {
		if r.name == string(core.CategoryAck) {
			return r.matches(q)
		}
	}
	return false
}

func (c *Classifier) Response(cat core.Category) string {
	return c.rules.Load().responses[cat]
}
