package synth

import (
	"regexp"
	"sort"
	"strings"
)

var (
	sentenceEndRe   = regexp.MustCompile(`[.!?]+\s+`)
	sentencePunctRe = regexp.MustCompile(`[.!?]+`)
	leadingItIsRe   = regexp.MustCompile(`(?i)^\s*it\s+is\b`)
	leadingTheyRe   = regexp.MustCompile(`(?i)^\s*they\s+are\b`)
	leadingThisIsRe = regexp.MustCompile(`(?i)^\s*this\s+is\b`)
	openTransRe     = regexp.MustCompile(`(?i)^\s*(however|moreover|furthermore|additionally|in addition|` +
		`for example|for instance|similarly|in contrast)\b`)
)

// Refiner applies targeted textual fixes for issues the Discriminator raised.
type Refiner struct{}

func (r Refiner) Refine(query, answer string, issues []string, subject set) string {
	has := newSet(issues...)
	out := answer

	if has.has(IssueOrphanedPronoun) {
		out = r.fixOrphanedPronoun(query, out, subject)
	}
	if has.has(IssueLacksTransitions) {
		out = r.addTransitions(out)
	}
	if has.has(IssueRedundantSentences) {
		out = r.removeRedundancy(out)
	}
	if has.has(IssueMissingDefinition) {
		out = r.definitionFirst(out)
	}
	return out
}

// subjectPhrase orders subject terms by first position in the query and
// keeps at most three of them.
func subjectPhrase(query string, subject set) string {
	type pos struct {
		at   int
		term string
	}
	q := strings.ToLower(query)

	var found []pos
	for t := range subject {
		if i := strings.Index(q, t); i >= 0 {
			found = append(found, pos{i, t})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].at != found[j].at {
			return found[i].at < found[j].at
		}
		return found[i].term < found[j].term
	})

	var words []string
	for i := 0; i < len(found) && i < 3; i++ {
		words = append(words, found[i].term)
	}
	return strings.Join(words, " ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}

func (Refiner) fixOrphanedPronoun(query, answer string, subject set) string {
	phrase := subjectPhrase(query, subject)
	if phrase == "" {
		return answer
	}
	title := titleCase(phrase)

	end := len(answer)
	if loc := sentenceEndRe.FindStringIndex(answer); loc != nil {
		end = loc[0]
	}
	first, rest := answer[:end], answer[end:]

	first = leadingItIsRe.ReplaceAllLiteralString(first, title+" is")
	first = leadingTheyRe.ReplaceAllLiteralString(first, title+" are")
	first = leadingThisIsRe.ReplaceAllLiteralString(first, title+" is")
	return first + rest
}

func (Refiner) addTransitions(answer string) string {
	var paragraphs []string
	for _, p := range strings.Split(answer, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) < 2 {
		return answer
	}

	second := paragraphs[1]
	if !openTransRe.MatchString(second) {
		if exampleRe.MatchString(second) {
			paragraphs[1] = "For example, " + lowerFirst(second)
		} else {
			paragraphs[1] = "Additionally, " + lowerFirst(second)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

func (Refiner) removeRedundancy(answer string) string {
	sentences := plainSentences(answer, 20)
	if len(sentences) < 2 {
		return answer
	}

	kept := []string{sentences[0]}
	for _, s := range sentences[1:] {
		st := terms(s)
		redundant := false
		for _, k := range kept {
			kt := terms(k)
			if len(st) > 0 && len(kt) > 0 &&
				float64(st.overlap(kt))/float64(min(len(st), len(kt))) > 0.60 {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, s)
		}
	}

	if len(kept) > 4 {
		kept = kept[:4]
	}
	return strings.Join(kept, ". ") + "."
}

// definitionFirst moves the first definitional sentence to the front.
func (Refiner) definitionFirst(answer string) string {
	var sentences []string
	last := 0
	for _, loc := range sentencePunctRe.FindAllStringIndex(answer, -1) {
		if s := strings.TrimSpace(answer[last:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(answer[last:]); tail != "" {
		sentences = append(sentences, tail)
	}

	for i, s := range sentences {
		if !definitionRe.MatchString(s) {
			continue
		}
		if i == 0 {
			return answer
		}
		reordered := append([]string{s}, sentences[:i]...)
		reordered = append(reordered, sentences[i+1:]...)
		return strings.Join(reordered, " ")
	}
	return answer
}
