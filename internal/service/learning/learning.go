package learning

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/textsim"
)

const (
	// MinConfidence is the confidence a learned answer needs to be served.
	MinConfidence = 0.75
	// FuzzyThreshold is the similarity a stored question needs when the
	// normalized query has no exact match.
	FuzzyThreshold = 0.85

	topTopics = 5
)

var (
	trailingQuestionRe = regexp.MustCompile(`\?+$`)
	learnPrefixRe      = regexp.MustCompile(`^(what is|what are|tell me about|explain)\s+(?:(the|a|an)\s+)?`)
	topicLeadRe        = regexp.MustCompile(`^(what|how|why|when|where|who|which|tell me|explain)\s+`)
	topicArticleRe     = regexp.MustCompile(`^(is|are|was|were|the|a|an)\s+`)
)

// Learner serves answers learned from feedback, keeps the usage log and
// records feedback.
type Learner struct {
	repo      core.LearningRepository
	knowledge core.KnowledgeRepository
}

// NewLearner builds a Learner. knowledge may be nil, in which case feedback
// does not rate stored knowledge.
func NewLearner(repo core.LearningRepository, knowledge core.KnowledgeRepository) *Learner {
	return &Learner{repo: repo, knowledge: knowledge}
}

func (l *Learner) Name() string {
	return "learned"
}

func (l *Learner) Source() core.AnswerSource {
	return core.SourceLearned
}

// Available fails when the learning store cannot be read.
func (l *Learner) Available(ctx context.Context) error {
	if _, err := l.repo.ListLearned(ctx, 2); err != nil {
		return fmt.Errorf("%w: %w", core.ErrUnavailable, err)
	}
	return nil
}

func (l *Learner) TryAnswer(ctx context.Context, query string) (string, bool) {
	logger := log.FromCtx(ctx)
	key := Normalize(query)
	if key == "" {
		return "", false
	}

	exact, err := l.repo.GetLearned(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("learned answer lookup failed")
		return "", false
	}
	if exact != nil && exact.Confidence >= MinConfidence {
		if err := l.repo.MarkUsed(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("failed to mark learned answer used")
		}
		return exact.Answer, true
	}

	candidates, err := l.repo.ListLearned(ctx, MinConfidence)
	if err != nil {
		logger.Warn().Err(err).Msg("learned answer scan failed")
		return "", false
	}

	var (
		best      *core.LearnedAnswer
		bestScore float64
	)
	for i := range candidates {
		if score := textsim.Ratio(key, candidates[i].Query); score > bestScore {
			best, bestScore = &candidates[i], score
		}
	}
	if best == nil || bestScore < FuzzyThreshold {
		return "", false
	}
	logger.Debug().Str("match", best.Query).Float64("score", bestScore).Msg("fuzzy learned answer")
	return best.Answer, true
}

// LogQuery appends query to the usage log under its topic.
func (l *Learner) LogQuery(ctx context.Context, query, answer, method string, success bool) error {
	return l.repo.AddUsage(ctx, core.UsageRecord{
		Query:   query,
		Method:  method,
		Success: success,
		Topic:   Topic(query),
	})
}

func (l *Learner) Stats(ctx context.Context) (core.LearningStats, error) {
	return l.repo.Stats(ctx, topTopics)
}

// Normalize is the key learned answers are stored under: lower case, no
// trailing question marks, no leading "what is"-style phrase, and no
// repeated consecutive words.
func Normalize(query string) string {
	q := strings.TrimSpace(strings.ToLower(query))
	q = trailingQuestionRe.ReplaceAllString(q, "")
	q = strings.TrimSpace(learnPrefixRe.ReplaceAllString(q, ""))

	var (
		words []string
		prev  string
	)
	for _, w := range strings.Fields(q) {
		if w != prev {
			words = append(words, w)
		}
		prev = w
	}
	return strings.Join(words, " ")
}

// Topic is the first three words of query once question words and
// articles are dropped.
func Topic(query string) string {
	t := topicLeadRe.ReplaceAllString(strings.ToLower(query), "")
	t = topicArticleRe.ReplaceAllString(t, "")
	t = trailingQuestionRe.ReplaceAllString(t, "")

	words := strings.Fields(t)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}
