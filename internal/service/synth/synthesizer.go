// Package synth assembles answers from retrieved text by selecting, scoring
// and regrouping sentences already present in it, then polishes the result
// with a bounded evaluate-and-refine loop.
package synth

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	cantAnswerCode = "I apologize, but I'm currently unable to generate code examples for this specific request.\n\n" +
		"For programming help, I'd recommend:\n" +
		"  • Official documentation for your language/framework\n" +
		"  • Stack Overflow for specific coding questions\n" +
		"  • GitHub for example implementations\n\n" +
		"However, I'd be happy to explain programming concepts, algorithms, or help you " +
		"understand how something works! Would you like me to explain the concept instead?"

	cantAnswerGeneral = "I apologize, but I couldn't find a reliable answer for your question.\n\n" +
		"The search results I found weren't clear or relevant enough to provide you " +
		"with accurate information. I always prefer to be honest rather than give you " +
		"uncertain or potentially incorrect information.\n\n" +
		"Here are some suggestions:\n" +
		"  • Try rephrasing your question in different words\n" +
		"  • Be more specific about what aspect you're interested in\n" +
		"  • Break complex questions into smaller, focused parts\n" +
		"  • Check if the topic might be very recent or specialized\n\n" +
		"Feel free to ask me something else, or rephrase this question. I'm here to help!"

	rawFallbackLimit = 600
	dedupKeyLength   = 55
)

var querySubjectRe = regexp.MustCompile(`(?i)^(what\s+is\s+(a\s+|an\s+|the\s+)?|` +
	`explain\s+(what\s+is\s+)?|define\s+|meaning\s+of\s+|` +
	`tell\s+me\s+about\s+|describe\s+|` +
	`how\s+(do|does|did|do\s+i|to)\s+|` +
	`who\s+(is|was|invented|created|made|founded)\s+|` +
	`when\s+(was|did|is)\s+|where\s+(is|was|are)\s+)`)

type Config struct {
	MaxSources      int
	ChunkLimit      int
	AcceptThreshold float64
	SimilarityFloor float64
	// MaxPasses bounds the evaluate-and-refine loop for retrieved sources.
	MaxPasses int
}

func DefaultConfig() Config {
	return Config{
		MaxSources:      4,
		ChunkLimit:      1800,
		AcceptThreshold: 0.78,
		SimilarityFloor: 0.3,
		MaxPasses:       2,
	}
}

type Synthesizer struct {
	cfg           Config
	discriminator Discriminator
	refiner       Refiner
}

func New(cfg Config) *Synthesizer {
	def := DefaultConfig()
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = def.MaxSources
	}
	if cfg.ChunkLimit <= 0 {
		cfg.ChunkLimit = def.ChunkLimit
	}
	if cfg.AcceptThreshold <= 0 {
		cfg.AcceptThreshold = def.AcceptThreshold
	}
	if cfg.SimilarityFloor <= 0 {
		cfg.SimilarityFloor = def.SimilarityFloor
	}
	if cfg.MaxPasses <= 0 {
		cfg.MaxPasses = def.MaxPasses
	}
	return &Synthesizer{cfg: cfg}
}

// NoResults is the reply used when retrieval produced nothing usable.
func NoResults(query string) string {
	return fmt.Sprintf("I couldn't find a good answer for %q right now.\n"+
		"Try rephrasing, or ask me something more specific.", query)
}

// FromSources answers query from retrieved chunks. It always returns a reply.
func (s *Synthesizer) FromSources(ctx context.Context, query string, chunks []core.SourceChunk, intent core.Intent) string {
	var parts []string
	for i, c := range chunks {
		if i == s.cfg.MaxSources {
			break
		}
		if strings.TrimSpace(c.Content) != "" {
			parts = append(parts, prefix(c.Content, s.cfg.ChunkLimit))
		}
	}
	if len(parts) == 0 {
		return NoResults(query)
	}
	combined := strings.Join(parts, "\n\n")

	switch intent {
	case core.IntentHowTo:
		if steps := extractHowTo(combined); steps != "" {
			return steps
		}
	case core.IntentComparison:
		return s.extractComparison(query, combined)
	}

	answer, subject := s.Synthesize(query, combined, intent)
	if !isValid(query, answer) {
		log.FromCtx(ctx).Debug().Str("query", query).Msg("synthesized answer rejected")
		return cantAnswer(query)
	}

	return s.improve(ctx, query, answer, intent, subject, s.cfg.MaxPasses)
}

// FromCache answers query from semantic cache hits. ok is false when the best
// hit is below the similarity floor or the answer fails the validity gate.
func (s *Synthesizer) FromCache(ctx context.Context, query string, hits []core.CacheHit) (string, bool) {
	if len(hits) == 0 || hits[0].Similarity < s.cfg.SimilarityFloor {
		return "", false
	}

	answer, subject := s.Synthesize(query, hits[0].Content, core.IntentGeneral)
	if !isValid(query, answer) {
		return "", false
	}
	return s.improve(ctx, query, answer, core.IntentGeneral, subject, 1), true
}

// improve runs at most passes evaluate-and-refine rounds.
func (s *Synthesizer) improve(ctx context.Context, query, answer string, intent core.Intent, subject set, passes int) string {
	for i := 0; i < passes; i++ {
		q := s.discriminator.Evaluate(query, answer, intent)
		log.FromCtx(ctx).Debug().
			Int("pass", i+1).
			Float64("overall", q.Overall).
			Strs("issues", q.Issues).
			Msg("answer assessed")

		if q.Overall >= s.cfg.AcceptThreshold || len(q.Issues) == 0 {
			break
		}
		answer = s.refiner.Refine(query, answer, q.Issues, subject)
	}
	return answer
}

type scored struct {
	text     string
	category string
	score    float64
}

// Synthesize extracts an answer for query from text and returns it with the
// subject vocabulary used for relevance scoring.
func (s *Synthesizer) Synthesize(query, text string, intent core.Intent) (string, set) {
	subject := terms(query)
	if qs := querySubject(query); qs != "" {
		subject = terms(qs)
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		raw := strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
		return prefix(raw, rawFallbackLimit), subject
	}

	var candidates []scored
	for _, sent := range sentences {
		overlap := subject.overlap(terms(sent))
		if overlap == 0 {
			continue
		}
		base := float64(overlap) + float64(overlap)/float64(max(len(subject), 1))

		c := scored{text: sent}
		switch {
		case definitionRe.MatchString(sent):
			c.category, c.score = "definition", base+3.0
		case exampleRe.MatchString(sent):
			c.category, c.score = "example", base+1.0
		case elaborationRe.MatchString(sent):
			c.category, c.score = "elaboration", base+1.5
		default:
			c.category, c.score = "general", base
		}
		if n := runeLen(sent); n >= 50 && n <= 220 {
			c.score += 0.5
		}
		candidates = append(candidates, c)
	}

	if len(candidates) == 0 {
		return strings.Join(headOf(sentences, 3), " "), subject
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var (
		definition   string
		elaborations []string
		example      string
		general      []string
		seen         = set{}
	)
	add := func(s string) bool {
		k := strings.ToLower(prefix(s, dedupKeyLength))
		if seen.has(k) {
			return false
		}
		seen[k] = struct{}{}
		return true
	}

	for _, c := range candidates {
		switch {
		case c.category == "definition" && definition == "":
			if add(c.text) {
				definition = c.text
			}
		case c.category == "elaboration" && len(elaborations) < 2:
			if add(c.text) {
				elaborations = append(elaborations, c.text)
			}
		case c.category == "example" && example == "":
			if add(c.text) {
				example = c.text
			}
		case c.category == "general" && len(general) < 1:
			if add(c.text) {
				general = append(general, c.text)
			}
		}
	}

	if definition == "" && len(general) > 0 {
		definition, general = general[0], general[1:]
	}
	if len(elaborations) < 1 {
		elaborations = append(elaborations, general...)
	}

	var parts []string
	if definition != "" {
		parts = append(parts, definition)
	}
	parts = append(parts, headOf(elaborations, 2)...)
	if example != "" && len(parts) < 3 {
		parts = append(parts, example)
	}

	if len(parts) == 0 {
		return strings.Join(headOf(sentences, 3), " "), subject
	}

	if intent == core.IntentNews || intent == core.IntentFactual {
		pos := make(map[string]int, len(sentences))
		for i, sent := range sentences {
			pos[sent] = i
		}
		sort.SliceStable(parts, func(i, j int) bool {
			return position(pos, parts[i]) < position(pos, parts[j])
		})
	}

	return strings.Join(groupParagraphs(parts), "\n\n"), subject
}

func position(pos map[string]int, s string) int {
	if p, ok := pos[s]; ok {
		return p
	}
	return 9999
}

func headOf(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// groupParagraphs turns the sentence list into a lead paragraph and a body.
func groupParagraphs(sentences []string) []string {
	if len(sentences) <= 1 {
		return sentences
	}
	return []string{sentences[0], strings.Join(sentences[1:], " ")}
}

func querySubject(query string) string {
	q := strings.TrimSpace(querySubjectRe.ReplaceAllString(strings.TrimSpace(query), ""))
	return strings.TrimRight(q, "?.!")
}

func isValid(query, answer string) bool {
	if runeLen(strings.TrimSpace(answer)) < 20 {
		return false
	}
	if !isMostlyLatin(answer) {
		return false
	}
	if relevance(query, answer) < 0.15 {
		return false
	}
	if codeRequestRe.MatchString(query) && !codePresentRe.MatchString(answer) {
		return false
	}
	return true
}

func cantAnswer(query string) string {
	if codeRequestRe.MatchString(query) {
		return cantAnswerCode
	}
	return cantAnswerGeneral
}
