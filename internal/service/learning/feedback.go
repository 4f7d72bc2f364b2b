package learning

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	minLearnLen      = 51
	maxLearnLen      = 499
	feedbackExcerpt  = 200
	maxCorrectionLen = 199
)

// correction extracts a replacement answer from a feedback comment. minLen
// is the shortest capture accepted, in runes.
type correction struct {
	re     *regexp.Regexp
	minLen int
	// vague rejects captures that ask for a better answer instead of
	// giving one ("should be more detailed").
	vague bool
}

var corrections = []correction{
	{re: regexp.MustCompile(`[Tt]he\s+.{1,50}\s+(?:is|are)\s+([^,.!?]+)`), minLen: 6},
	{re: regexp.MustCompile(`(?i)(?:correct|right|actual)\s+answer\s+(?:is|are)\s+([^,.!?]+)`), minLen: 3},
	{re: regexp.MustCompile(`(?i)(?:it|they)\s+(?:should be|is|are)\s+([^,.!?]+)`), minLen: 6},
	{re: regexp.MustCompile(`[Aa]ctually(?:\s+it'?s?)?\s+([^,.!?]+)`), minLen: 6},
	{re: regexp.MustCompile(`(?i)(?:means|stands for)\s+([^,.!?]+)`), minLen: 4},
	{re: regexp.MustCompile(`(?i)should\s+be\s+([^,.!?]+)`), minLen: 6, vague: true},
	{re: regexp.MustCompile(`(?i)^[^,.!?]+\s+(?:is|are)\s+([^,.!?]+)`), minLen: 4},
}

var vagueWords = []string{"more", "better", "clearer", "detailed", "specific"}

// Feedback records a verdict on answer. Helpful answers of a reasonable
// length are learned; an unhelpful one is forgotten and, when comment
// carries a correction, the correction is learned instead. It reports
// whether anything was learned.
func (l *Learner) Feedback(ctx context.Context, query, answer string, helpful bool, comment string) (bool, error) {
	logger := log.FromCtx(ctx)

	if err := l.repo.AddFeedback(ctx, core.FeedbackRecord{
		Query:   query,
		Answer:  truncate(answer, feedbackExcerpt),
		Helpful: helpful,
		Comment: comment,
	}); err != nil {
		return false, err
	}

	if l.knowledge != nil {
		score := 0.0
		if helpful {
			score = 1.0
		}
		if err := l.knowledge.RateByQuery(ctx, query, score); err != nil {
			logger.Warn().Err(err).Msg("failed to rate knowledge")
		}
	}

	key := Normalize(query)
	if key == "" {
		return false, nil
	}

	if helpful {
		if n := utf8.RuneCountInString(answer); n < minLearnLen || n > maxLearnLen {
			return false, nil
		}
		if err := l.repo.SaveLearned(ctx, core.LearnedAnswer{Query: key, Answer: answer}); err != nil {
			return false, err
		}
		logger.Info().Str("query", key).Msg("learned answer from feedback")
		return true, nil
	}

	if err := l.repo.DeleteLearned(ctx, key); err != nil {
		return false, err
	}

	fixed, ok := ExtractCorrection(comment)
	if !ok {
		return false, nil
	}
	if err := l.repo.SaveLearned(ctx, core.LearnedAnswer{Query: key, Answer: fixed}); err != nil {
		return false, err
	}
	logger.Info().Str("query", key).Msg("learned correction from feedback")
	return true, nil
}

// ExtractCorrection finds a corrected answer in a feedback comment such as
// "the answer is ...", "it should be ...", "actually ..." or "... stands for
// ...".
func ExtractCorrection(comment string) (string, bool) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return "", false
	}

	for _, c := range corrections {
		m := c.re.FindStringSubmatch(comment)
		if m == nil {
			continue
		}
		fixed := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(fixed); n < c.minLen || n > maxCorrectionLen {
			continue
		}
		if c.vague && containsAny(strings.ToLower(fixed), vagueWords) {
			continue
		}
		return fixed, true
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
