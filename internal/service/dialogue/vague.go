package dialogue

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	questionRe = regexp.MustCompile(`(?i)^\s*(what|how|why|when|where|who|which|explain|tell me about|describe|define|` +
		`what's|what is|how do|how does|what are)\b`)

	taskPrefixRe = regexp.MustCompile(`(?i)^\s*(i\s+need\s+(you\s+to\s+|help\s+with\s+|to\s+)?|` +
		`can\s+you\s+|could\s+you\s+|please\s+|` +
		`help\s+me\s+(with\s+|do\s+|on\s+|understand\s+)?|` +
		`do\s+(some\s+|a\s+few\s+|the\s+|an?\s+)?|perform\s+(some\s+)?|` +
		`i\s+want\s+(you\s+to\s+|to\s+)?|show\s+me\s+(how\s+to\s+)?|` +
		`give\s+me\s+|i\s+need\s+help\s+(with\s+)?)\s*`)
)

var genericSubjects = map[string]bool{
	"operations": true, "operation": true, "tasks": true, "task": true, "stuff": true,
	"things": true, "thing": true, "problems": true, "problem": true, "exercises": true,
	"exercise": true, "calculations": true, "calculation": true, "work": true,
	"questions": true, "question": true, "examples": true, "example": true, "maths": true,
	"math": true, "arithmetic": true, "arithmetics": true, "algebra": true, "calculus": true,
	"coding": true, "programming": true, "science": true, "biology": true, "chemistry": true,
	"physics": true, "history": true, "geography": true, "something": true, "anything": true,
	"it": true, "that": true, "topics": true, "topic": true, "writing": true, "essay": true,
	"help": true, "assistance": true, "support": true, "advice": true, "guidance": true,
	"information": true, "info": true,
}

// topicNoise is stripped from a vague phrase to get at its topic noun.
var topicNoise = map[string]bool{
	"some": true, "a": true, "an": true, "the": true, "help": true, "assistance": true,
	"with": true, "in": true, "on": true, "about": true, "for": true, "bit": true, "lot": true,
	"please": true, "need": true, "want": true, "do": true, "me": true, "you": true, "i": true,
	"my": true, "your": true, "their": true, "little": true, "more": true, "any": true,
}

// clarifications is checked in order; the first keyword contained in the
// subject picks the question.
var clarifications = []struct {
	keyword  string
	question string
}{
	{"help", "What would you like help with? I can answer questions, explain topics, do math, help with how-tos, and more."},
	{"assistance", "What would you like help with? I can answer questions, explain topics, do math, help with how-tos, and more."},
	{"arithmetic", "What would you like to work through: addition, subtraction, multiplication, division, or a specific problem?"},
	{"arithmetics", "What would you like to work through: addition, subtraction, multiplication, division, or a specific problem?"},
	{"math", "What kind of math? Give me a specific problem or topic (e.g. fractions, algebra, geometry)."},
	{"maths", "What kind of math? Give me a specific problem or topic (e.g. fractions, algebra, geometry)."},
	{"algebra", "What algebra problem or concept? (e.g. solve for x, quadratic formula)"},
	{"calculus", "What calculus topic? (e.g. derivatives, integrals, limits)"},
	{"coding", "What would you like to build, or what specific problem are you trying to solve?"},
	{"programming", "Which language or problem? (e.g. Python sorting, JavaScript async, SQL queries)"},
	{"science", "Which area of science? (e.g. physics, biology, chemistry, astronomy)"},
	{"biology", "What biology topic? (e.g. cell structure, genetics, evolution, photosynthesis)"},
	{"chemistry", "What chemistry topic? (e.g. periodic table, reactions, acids and bases)"},
	{"physics", "What physics topic? (e.g. Newton's laws, electricity, quantum mechanics)"},
	{"history", "Which period or event in history are you curious about?"},
	{"geography", "Which region or concept? (e.g. capitals, climate zones, rivers, countries)"},
	{"operations", "What kind of operations? Give me a specific problem and I'll help."},
	{"calculations", "What would you like to calculate? Share the numbers or the formula."},
	{"writing", "What kind of writing? (e.g. essay structure, cover letter, email, story)"},
	{"essay", "What topic is the essay on? I can help with structure, arguments, or content."},
}

const genericClarification = "Could you be more specific? What exactly would you like help with?"

// taskSubject strips a task-request prefix. ok is false when text is not a
// task request.
func taskSubject(text string) (string, bool) {
	q := strings.TrimSpace(text)
	loc := taskPrefixRe.FindStringIndex(q)
	if loc == nil {
		return q, false
	}
	return strings.TrimRight(strings.TrimSpace(q[loc[1]:]), ".,!"), true
}

func isAlpha(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsVagueTask reports whether text asks for help without naming anything
// concrete to act on. Explicit questions are never vague.
func IsVagueTask(text string) bool {
	q := strings.TrimSpace(text)
	if strings.Contains(q, "?") || questionRe.MatchString(q) {
		return false
	}
	subject, ok := taskSubject(q)
	if !ok {
		return false
	}

	var words []string
	for _, w := range strings.Fields(subject) {
		if isAlpha(w) {
			words = append(words, strings.ToLower(w))
		}
	}

	switch {
	case len(words) == 0:
		return true
	case len(words) <= 2:
		if len(words) == 1 {
			return true
		}
		return genericSubjects[words[0]] || genericSubjects[words[1]]
	default:
		return genericSubjects[words[len(words)-1]]
	}
}

// ClarifyingQuestion builds a topic-aware question for a vague request.
func ClarifyingQuestion(text string) string {
	subject, _ := taskSubject(text)
	lower := strings.ToLower(subject)
	for _, c := range clarifications {
		if strings.Contains(lower, c.keyword) {
			return c.question
		}
	}
	if subject != "" && !genericSubjects[lower] {
		return fmt.Sprintf("Could you be more specific about what you'd like help with regarding %s?", subject)
	}
	return genericClarification
}

// TopicNoun drops filler words from a phrase, keeping the topic noun.
func TopicNoun(phrase string) string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(phrase)) {
		if isAlpha(w) && !topicNoise[w] {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return strings.TrimSpace(phrase)
	}
	return strings.Join(words, " ")
}

// pendingTopicFor extracts the topic stored while awaiting clarification.
func pendingTopicFor(text string) string {
	subject, _ := taskSubject(text)
	if subject == "" {
		subject = "that"
	}
	if noun := TopicNoun(subject); noun != "" {
		return noun
	}
	return subject
}
