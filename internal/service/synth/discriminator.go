package synth

import (
	"regexp"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

// Issue tags raised by the Discriminator.
const (
	IssueLacksTransitions     = "lacks_transitions"
	IssueMissingQueryTerms    = "missing_query_terms"
	IssuePartialCoverage      = "partial_coverage"
	IssueOrphanedPronoun      = "orphaned_pronoun_in_first_sentence"
	IssueExcessivePronouns    = "excessive_pronouns"
	IssueRedundantSentences   = "redundant_sentences"
	IssueMissingDefinition    = "missing_definition_structure"
	IssueMissingStepStructure = "missing_step_structure"
)

var (
	transitionRe = regexp.MustCompile(`(?i)\b(however|therefore|thus|moreover|furthermore|additionally|` +
		`for example|for instance|in addition|as a result|consequently|` +
		`similarly|likewise|on the other hand|in contrast|nevertheless|` +
		`meanwhile|subsequently|finally|first|second|third)\b`)
	pronounRe        = regexp.MustCompile(`(?i)\b(it|they|them|their|its|this|that|these|those)\b`)
	leadingPronounRe = regexp.MustCompile(`(?i)^\s*(it|they|them|their|its|this|that|these|those)\b`)
	whatIsRe         = regexp.MustCompile(`(?i)^\s*what\s+is\s+`)
	numberedStepRe   = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
)

// Assessment scores one answer along five axes in [0, 1].
type Assessment struct {
	Coherence    float64  `json:"coherence"`
	Completeness float64  `json:"completeness"`
	Clarity      float64  `json:"clarity"`
	Conciseness  float64  `json:"conciseness"`
	Structure    float64  `json:"structure"`
	Overall      float64  `json:"overall"`
	Issues       []string `json:"issues"`
}

func (a Assessment) Has(issue string) bool {
	for _, i := range a.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

type Discriminator struct{}

func (d Discriminator) Evaluate(query, answer string, intent core.Intent) Assessment {
	var a Assessment
	a.Coherence = d.coherence(answer, &a.Issues)
	a.Completeness = d.completeness(query, answer, &a.Issues)
	a.Clarity = d.clarity(answer, &a.Issues)
	a.Conciseness = d.conciseness(answer, &a.Issues)
	a.Structure = d.structure(query, answer, intent, &a.Issues)
	a.Overall = a.Coherence*0.2 + a.Completeness*0.3 + a.Clarity*0.25 +
		a.Conciseness*0.15 + a.Structure*0.1
	return a
}

func (Discriminator) coherence(answer string, issues *[]string) float64 {
	sentences := plainSentences(answer, 0)
	if len(sentences) < 2 {
		return 1
	}

	linked := 0
	for _, s := range sentences {
		if transitionRe.MatchString(s) {
			linked++
		}
	}
	ratio := float64(linked) / float64(max(len(sentences)-1, 1))

	if len(sentences) >= 4 && ratio < 0.2 {
		*issues = append(*issues, IssueLacksTransitions)
	}

	switch {
	case ratio > 0.3:
		return 0.95
	case ratio > 0.15:
		return 0.85
	default:
		return 0.7
	}
}

func (Discriminator) completeness(query, answer string, issues *[]string) float64 {
	q := terms(query)
	if len(q) == 0 {
		return 1
	}
	coverage := float64(q.overlap(terms(answer))) / float64(len(q))

	switch {
	case coverage < 0.3:
		*issues = append(*issues, IssueMissingQueryTerms)
		return 0.4
	case coverage < 0.5:
		*issues = append(*issues, IssuePartialCoverage)
		return 0.65
	}
	return min(0.95, 0.5+coverage*0.6)
}

func (Discriminator) clarity(answer string, issues *[]string) float64 {
	sentences := plainSentences(answer, 0)
	if len(sentences) == 0 {
		return 1
	}

	if leadingPronounRe.MatchString(sentences[0]) {
		*issues = append(*issues, IssueOrphanedPronoun)
		return 0.6
	}

	density := float64(len(pronounRe.FindAllString(answer, -1))) / float64(max(len(strings.Fields(answer)), 1))
	if density > 0.15 {
		*issues = append(*issues, IssueExcessivePronouns)
		return 0.7
	}
	return 0.95
}

func (Discriminator) conciseness(answer string, issues *[]string) float64 {
	sentences := plainSentences(answer, 20)
	if len(sentences) < 2 {
		return 1
	}

	redundant := 0
	for i := range sentences {
		a := terms(sentences[i])
		for _, other := range sentences[i+1:] {
			b := terms(other)
			if len(a) == 0 || len(b) == 0 {
				continue
			}
			if float64(a.overlap(b))/float64(min(len(a), len(b))) > 0.7 {
				redundant++
			}
		}
	}

	if redundant > 0 {
		*issues = append(*issues, IssueRedundantSentences)
		return max(0.5, 0.95-float64(redundant)*0.15)
	}
	return 0.95
}

func (Discriminator) structure(query, answer string, intent core.Intent, issues *[]string) float64 {
	if intent == core.IntentDefinition || whatIsRe.MatchString(query) {
		first, _, _ := strings.Cut(answer, ".")
		if !definitionRe.MatchString(first) {
			*issues = append(*issues, IssueMissingDefinition)
			return 0.6
		}
	}

	if intent == core.IntentHowTo && !numberedStepRe.MatchString(answer) {
		*issues = append(*issues, IssueMissingStepStructure)
		return 0.6
	}
	return 0.95
}
