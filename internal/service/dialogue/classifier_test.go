package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/musage/internal/core"
)

func TestClassifier_Conversational(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		input    string
		expected core.Category
		ok       bool
	}{
		{"hello!", core.CategoryGreeting, true},
		{"Good morning", core.CategoryGreeting, true},
		{"bye", core.CategoryFarewell, true},
		{"thanks a lot", core.CategoryThanks, true},
		{"ok", core.CategoryAck, true},
		{"  got it.  ", core.CategoryAck, true},
		{"who are you?", core.CategoryIdentity, true},
		{"so what is musage exactly", core.CategoryIdentity, true},
		{"help", core.CategoryHelp, true},
		{"what can you do?", core.CategoryHelp, true},
		{"how are you", core.CategorySmallTalk, true},
		{"interesting", core.CategorySmallTalk, true},
		{"yes", core.CategorySmallTalk, true},
		{"what is machine learning", "", false},
		{"I need help", "", false},
		{"hello world program in go", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cat, ok := c.Conversational(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, cat)
		})
	}
}

func TestClassifier_ConversationalCategoriesExclusive(t *testing.T) {
	corpus := map[string]core.Category{
		"hello":            core.CategoryGreeting,
		"goodbye":          core.CategoryFarewell,
		"thank you":        core.CategoryThanks,
		"got it":           core.CategoryAck,
		"who are you?":     core.CategoryIdentity,
		"what can you do?": core.CategoryHelp,
		"how are you":      core.CategorySmallTalk,
	}

	rules := DefaultRules()
	for input, expected := range corpus {
		var matched []string
		for _, r := range rules.conversational {
			if r.matches(input) {
				matched = append(matched, r.name)
			}
		}
		assert.Equal(t, []string{string(expected)}, matched, input)
	}
}

func TestClassifier_Intent(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		input    string
		expected core.Intent
	}{
		{"tell me more about rust", core.IntentFollowUp},
		{"what about its performance", core.IntentFollowUp},
		{"python vs go", core.IntentComparison},
		{"what is the difference between tcp and udp", core.IntentComparison},
		{"latest news about AI", core.IntentNews},
		{"how to install go", core.IntentHowTo},
		{"steps to bake bread", core.IntentHowTo},
		{"what is a monad", core.IntentDefinition},
		{"define entropy", core.IntentDefinition},
		{"who invented the telephone", core.IntentFactual},
		{"how many moons does mars have", core.IntentFactual},
		{"best laptop for students", core.IntentRecommendation},
		{"do you think cats are smart", core.IntentOpinion},
		{"quantum entanglement", core.IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Intent(tt.input))
		})
	}
}

func TestClassifier_Confirmation(t *testing.T) {
	c := NewClassifier(nil)

	for _, s := range []string{"yes", "Yes please", "sure!", "go ahead", "search it", "ok"} {
		assert.True(t, c.Affirmative(s), s)
		assert.False(t, c.Negative(s), s)
	}
	for _, s := range []string{"no", "nope", "no thanks", "don't", "never mind"} {
		assert.True(t, c.Negative(s), s)
		assert.False(t, c.Affirmative(s), s)
	}
	for _, s := range []string{"tell me about rust", "what is go"} {
		assert.False(t, c.Affirmative(s), s)
		assert.False(t, c.Negative(s), s)
	}
}

func TestClassifier_Swap(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, core.IntentGeneral, c.Intent("sonnet about autumn"))

	r, err := ParseRules([]byte(`
intents:
  - name: opinion
    mode: search
    patterns: ['sonnet']
`))
	assert.NoError(t, err)

	c.Swap(r)
	assert.Equal(t, core.IntentOpinion, c.Intent("sonnet about autumn"))
	_, ok := c.Conversational("hello")
	assert.False(t, ok)
}
