package synth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var stopWords = newSet(
	"what", "is", "are", "how", "why", "when", "where", "who", "the", "a", "an", "of",
	"to", "in", "and", "or", "for", "do", "does", "i", "my", "can", "you", "it", "its",
	"was", "be", "been", "this", "that", "with", "from", "at", "by", "on", "as", "up",
	"about", "into", "than", "then", "so", "if", "but", "not", "no", "we", "they", "he",
	"she", "will", "would", "could", "should", "have", "has", "had", "just", "also",
	"very", "more", "most", "some", "any", "all", "one", "two", "three", "get", "make",
	"use", "used", "using", "new", "good", "like", "well", "time", "way", "help", "our",
	"their", "these", "those", "which", "there", "here", "each",
)

var (
	noiseRe = regexp.MustCompile(`(?i)(cookie[s\s]+(policy|consent|notice)|privacy\s+policy|` +
		`subscribe|click\s+here|sign\s+up|log\s*in|advertisement|` +
		`sponsored|copyright\s+\d{4}|all\s+rights\s+reserved|` +
		`\d+\s*min(ute)?\s+read|share\s+(this|on)|follow\s+us|` +
		`newsletter|terms\s+of\s+(use|service)|` +
		`(read|see)\s+more\s+(about|on|at)|` +
		`(updated|published|posted)\s+on\s+\w+\s+\d+|` +
		`image\s+(source|caption)|` +
		`getty\s+images?|AFP|\bAP\s+Photo\b|PA\s+Media|` +
		`alamy|shutterstock|\bepa\b|` +
		`(watch|listen)\s+(the|this|full)|` +
		`related\s+(article|story|content|questions?)|` +
		`trending\s+questions?|continue\s+learning|search\s+continue|` +
		`by\s+\w+\s+\w+,?\s+(bbc|cnn|fox|nbc|sky)\s+(news|sport)?|` +
		`what\s+is\s+the\s+ratio|how\s+many\s+times|is\s+five\s+times)`)

	questionSentenceRe = regexp.MustCompile(`(?i)^\s*(what|how|why|when|where|who|which|is\s+\w+\s+\w+\?)`)

	definitionRe = regexp.MustCompile(`(?i)\b(is\s+(a|an|the|one)\b|is\s+defined\s+as\b|refers?\s+to\b|` +
		`defined\s+as\b|describes?\s+\b|means?\s+\b|known\s+as\b|is\s+called\b|` +
		`is\s+(the\s+)?(study|branch|field|process|method|technique|` +
		`concept|practice|science|art|system|language|framework|tool|` +
		`approach|way|type|form|kind)\b|` +
		`can\s+be\s+defined|in\s+mathematics|in\s+(computer\s+)?science\b|` +
		`in\s+simple\s+terms|put\s+simply|essentially)`)

	exampleRe = regexp.MustCompile(`(?i)\b(for\s+example|for\s+instance|such\s+as|e\.g\.|i\.e\.|` +
		`to\s+illustrate|as\s+an\s+example|consider\s+(the\s+)?example|` +
		`like\s+\w+(\s+and\s+\w+)?|including\b)`)

	elaborationRe = regexp.MustCompile(`(?i)\b(allows?\b|enables?\b|provides?\b|consists?\s+of\b|` +
		`includes?\b|involves?\b|requires?\b|uses?\b|based\s+on\b|` +
		`composed\s+of\b|made\s+(up\s+)?of\b|results?\s+in\b|` +
		`key\s+(feature|aspect|advantage|property|concept)\b|` +
		`important\b|primary\b|main\b|fundamental\b|core\b)`)

	codeRequestRe = regexp.MustCompile(`(?i)\b(write|create|make|generate|give\s+me|show\s+me)\s+(` +
		`(a|an|some|the)\s+)?(code|program|script|function|class|snippet)|` +
		`\b(write|create|make|generate|give|show)\s+.*?\s*(python|javascript|java|c\+\+|html|css)\s+(code|program|script|function)|` +
		`(python|javascript|java|c\+\+|html|css)\s+code\s+(to|for|that)|` +
		`code\s+(to|for|that)\s+(print|display|sort|calculate|find)`)

	codePresentRe = regexp.MustCompile("(?m)(^\\s{4,}\\w|```|def\\s+\\w+\\(|class\\s+\\w+|\\{[\\s\\S]{10,}\\})")

	headingVerbRe = regexp.MustCompile(`(?i)\b(is|are|was|were|has|have|can|do|does)\b`)
	urlRe         = regexp.MustCompile(`https?://\S+`)
	footnoteRe    = regexp.MustCompile(`\[\d+\]`)
	spaceRe       = regexp.MustCompile(`\s+`)
	wordRe        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

type set map[string]struct{}

func newSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s set) overlap(o set) int {
	n := 0
	for w := range s {
		if o.has(w) {
			n++
		}
	}
	return n
}

// terms returns the lower-cased content words of s.
func terms(s string) set {
	out := set{}
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if !stopWords.has(w) {
			out[w] = struct{}{}
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func clean(s string) string {
	s = urlRe.ReplaceAllString(s, "")
	s = footnoteRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	return capitalize(s)
}

func isGoodSentence(s string) bool {
	s = strings.TrimSpace(s)
	n := runeLen(s)
	if n < 35 {
		return false
	}
	words := strings.Fields(s)
	if len(words) < 6 {
		return false
	}
	if noiseRe.MatchString(s) || questionSentenceRe.MatchString(s) {
		return false
	}
	// table rows and breadcrumbs
	if strings.Count(s, "/")+strings.Count(s, "|")+strings.Count(s, `\`) > 3 {
		return false
	}

	var alpha, digits int
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			alpha++
		case unicode.IsDigit(r):
			digits++
		}
	}
	if float64(alpha) < float64(n)*0.45 {
		return false
	}
	if len(words) <= 4 && !headingVerbRe.MatchString(s) {
		return false
	}
	return float64(digits)/float64(n) <= 0.20
}

// splitRaw breaks text where sentence-ending punctuation and whitespace are
// followed by an ASCII capital letter.
func splitRaw(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		prev := rune(0)
		if i > 0 {
			prev = runes[i-1]
		}
		if (prev == '.' || prev == '!' || prev == '?') && j < len(runes) && runes[j] >= 'A' && runes[j] <= 'Z' {
			out = append(out, string(runes[start:i]))
			start = j
		}
		i = j - 1
	}
	return append(out, string(runes[start:]))
}

// splitSentences returns the cleaned sentences of text that carry content.
func splitSentences(text string) []string {
	var out []string
	for _, raw := range splitRaw(text) {
		s := clean(strings.TrimSpace(raw))
		if isGoodSentence(s) {
			out = append(out, s)
		}
	}
	return out
}

// isMostlyLatin reports whether at least half of the non-space characters
// are Latin letters. Short texts pass.
func isMostlyLatin(text string) bool {
	if runeLen(strings.TrimSpace(text)) < 20 {
		return true
	}
	var latin, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) && r < 0x0370 {
			latin++
		}
	}
	if total == 0 {
		return true
	}
	return float64(latin)/float64(total) >= 0.5
}

// relevance is the share of query content words present in answer.
func relevance(query, answer string) float64 {
	q := terms(query)
	if len(q) == 0 {
		return 1
	}
	return float64(q.overlap(terms(answer))) / float64(len(q))
}

// plainSentences splits on runs of terminal punctuation, dropping blanks.
func plainSentences(text string, minLen int) []string {
	var out []string
	for _, s := range punctRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" && runeLen(s) > minLen {
			out = append(out, s)
		}
	}
	return out
}

var punctRe = regexp.MustCompile(`[.!?]+`)
