package dialogue

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandevgo/musage/internal/core"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

const (
	modeMatch  = "match"
	modeSearch = "search"
)

type ruleDoc struct {
	Name     string   `yaml:"name"`
	Mode     string   `yaml:"mode"`
	Patterns []string `yaml:"patterns"`
}

type rulesDoc struct {
	Conversational []ruleDoc         `yaml:"conversational"`
	Intents        []ruleDoc         `yaml:"intents"`
	Affirmative    []string          `yaml:"affirmative"`
	Negative       []string          `yaml:"negative"`
	Responses      map[string]string `yaml:"responses"`
}

type rule struct {
	name     string
	patterns []*regexp.Regexp
}

func (r rule) matches(text string) bool {
	for _, re := range r.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Rules is a compiled, immutable rule set.
type Rules struct {
	conversational []rule
	intents        []rule
	affirmative    rule
	negative       rule
	responses      map[core.Category]string
}

var (
	knownCategories = map[string]bool{
		string(core.CategoryGreeting): true, string(core.CategoryFarewell): true,
		string(core.CategoryThanks): true, string(core.CategoryAck): true,
		string(core.CategoryIdentity): true, string(core.CategoryHelp): true,
		string(core.CategorySmallTalk): true,
	}
	knownIntents = map[string]bool{
		string(core.IntentFollowUp): true, string(core.IntentComparison): true,
		string(core.IntentNews): true, string(core.IntentHowTo): true,
		string(core.IntentDefinition): true, string(core.IntentFactual): true,
		string(core.IntentRecommendation): true, string(core.IntentOpinion): true,
	}
)

// DefaultRules returns the rule set shipped with the binary.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return r
}

func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules compiles a YAML rule document. Every conversational category
// needs a response.
func ParseRules(data []byte) (*Rules, error) {
	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}

	out := &Rules{responses: make(map[core.Category]string, len(doc.Responses))}

	for _, d := range doc.Conversational {
		if !knownCategories[d.Name] {
			return nil, fmt.Errorf("unknown conversational category %q", d.Name)
		}
		if strings.TrimSpace(doc.Responses[d.Name]) == "" {
			return nil, fmt.Errorf("no response for category %q", d.Name)
		}
		r, err := compileRule(d)
		if err != nil {
			return nil, err
		}
		out.conversational = append(out.conversational, r)
	}

	for _, d := range doc.Intents {
		if !knownIntents[d.Name] {
			return nil, fmt.Errorf("unknown intent %q", d.Name)
		}
		r, err := compileRule(d)
		if err != nil {
			return nil, err
		}
		out.intents = append(out.intents, r)
	}

	var err error
	if out.affirmative, err = compileRule(ruleDoc{Name: "affirmative", Mode: modeMatch, Patterns: doc.Affirmative}); err != nil {
		return nil, err
	}
	if out.negative, err = compileRule(ruleDoc{Name: "negative", Mode: modeMatch, Patterns: doc.Negative}); err != nil {
		return nil, err
	}

	for k, v := range doc.Responses {
		out.responses[core.Category(k)] = v
	}
	return out, nil
}

func compileRule(d ruleDoc) (rule, error) {
	r := rule{name: d.Name}
	for _, p := range d.Patterns {
		var expr string
		switch d.Mode {
		case modeMatch:
			expr = `(?i)^(?:` + p + `)`
		case modeSearch:
			expr = `(?i)` + p
		default:
			return rule{}, fmt.Errorf("rule %q: unknown mode %q", d.Name, d.Mode)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return rule{}, fmt.Errorf("rule %q: %w", d.Name, err)
		}
		r.patterns = append(r.patterns, re)
	}
	return r, nil
}
