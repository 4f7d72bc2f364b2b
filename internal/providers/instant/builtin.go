package instant

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

//go:embed data/faq.yaml
var faqData []byte

var (
	wordMathPrefixRe = regexp.MustCompile(`^(what\s+is\s+|calculate\s+|compute\s+|what's\s+)`)
	wordMathRe       = regexp.MustCompile(`^([a-z]+(?:\s+[a-z]+)?)\s+(plus|add|minus|subtract|times|multiply|multiplied\s+by|divided\s+by|divide)\s+([a-z]+(?:\s+[a-z]+)?)$`)
	keywordRe        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
	"eighty": 80, "ninety": 90, "hundred": 100, "thousand": 1000,
	"million": 1000000, "billion": 1000000000,
}

var operatorWords = map[string]string{
	"plus": "+", "add": "+",
	"minus": "-", "subtract": "-",
	"times": "*", "multiply": "*", "multiplied by": "*",
	"divided by": "/", "divide": "/",
}

var keywordStopWords = map[string]struct{}{
	"what": {}, "is": {}, "a": {}, "an": {}, "the": {}, "are": {}, "how": {}, "does": {}, "do": {},
}

// Builtin answers arithmetic spelled out in words and a curated FAQ.
type Builtin struct {
	entries []entry
	index   map[string]string
	err     error
}

func NewBuiltin() *Builtin {
	return NewBuiltinFrom(faqData)
}

// NewBuiltinFrom builds the provider over a custom FAQ document. A broken
// document leaves word math working and is reported by Available.
func NewBuiltinFrom(data []byte) *Builtin {
	b := &Builtin{index: make(map[string]string)}
	b.entries, b.err = parseTable(data)
	for _, e := range b.entries {
		b.index[cleanQuestion(e.Question)] = e.Answer
	}
	return b
}

func (b *Builtin) Name() string { return "builtin" }

func (b *Builtin) Source() core.AnswerSource { return core.SourceBuiltin }

func (b *Builtin) Available(context.Context) error {
	if b.err != nil {
		return fmt.Errorf("%w: %w", core.ErrUnavailable, b.err)
	}
	return nil
}

func (b *Builtin) TryAnswer(_ context.Context, query string) (string, bool) {
	if answer, ok := wordMath(query); ok {
		return answer, true
	}
	return b.lookup(query)
}

func (b *Builtin) lookup(query string) (string, bool) {
	q := cleanQuestion(query)
	if answer, ok := b.index[q]; ok {
		return answer, true
	}

	queryWords := keywords(q)
	for _, e := range b.entries {
		keys := keywords(e.Question)
		if len(keys) == 0 {
			continue
		}
		covered := true
		for k := range keys {
			if _, ok := queryWords[k]; !ok {
				covered = false
				break
			}
		}
		if covered {
			return e.Answer, true
		}
	}
	return "", false
}

func keywords(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range keywordRe.FindAllString(strings.ToLower(s), -1) {
		if _, stop := keywordStopWords[w]; !stop {
			out[w] = struct{}{}
		}
	}
	return out
}

func wordMath(query string) (string, bool) {
	q := strings.TrimSpace(strings.ToLower(query))
	q = strings.TrimSpace(wordMathPrefixRe.ReplaceAllString(q, ""))
	q = strings.TrimSpace(trailingQuestionRe.ReplaceAllString(q, ""))

	m := wordMathRe.FindStringSubmatch(q)
	if m == nil {
		return "", false
	}
	a, ok := wordsToNumber(m[1])
	if !ok {
		return "", false
	}
	b, ok := wordsToNumber(m[3])
	if !ok {
		return "", false
	}
	op, ok := operatorWords[strings.Join(strings.Fields(m[2]), " ")]
	if !ok {
		return "", false
	}

	var result string
	switch op {
	case "+":
		result = strconv.Itoa(a + b)
	case "-":
		result = strconv.Itoa(a - b)
	case "*":
		result = strconv.Itoa(a * b)
	case "/":
		if b == 0 {
			return "Cannot divide by zero.", true
		}
		if a%b == 0 {
			result = strconv.Itoa(a / b)
		} else {
			result = strconv.FormatFloat(float64(a)/float64(b), 'f', -1, 64)
		}
	}
	return fmt.Sprintf("%d %s %d = %s", a, op, b, result), true
}

// wordsToNumber reads a single number word or a tens-and-units pair such as
// "twenty five".
func wordsToNumber(words string) (int, bool) {
	words = strings.TrimSpace(words)
	if n, ok := numberWords[words]; ok {
		return n, true
	}
	parts := strings.Fields(words)
	if len(parts) != 2 {
		return 0, false
	}
	tens, ok1 := numberWords[parts[0]]
	units, ok2 := numberWords[parts[1]]
	if !ok1 || !ok2 || tens < 20 || tens >= 100 || units >= 10 {
		return 0, false
	}
	return tens + units, true
}
