package core

import "time"

const (
	AppName          = "MuSage"
	AppUserAgent     = "Mozilla/5.0 (compatible; MuSage/0.1; +https://github.com/sandevgo/musage)"
	AppRepositoryURL = "https://github.com/sandevgo/musage"
	AppVersion       = "0.1.0"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one recorded message of a session. Turns are never edited after
// they are written.
type Turn struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Intent is the task shape of a content query.
type Intent string

const (
	IntentFollowUp       Intent = "followup"
	IntentComparison     Intent = "comparison"
	IntentNews           Intent = "news"
	IntentHowTo          Intent = "howto"
	IntentDefinition     Intent = "definition"
	IntentFactual        Intent = "factual"
	IntentRecommendation Intent = "recommendation"
	IntentOpinion        Intent = "opinion"
	IntentGeneral        Intent = "general"
)

// Category is a conversational shortcut that is answered with a canned reply.
type Category string

const (
	CategoryGreeting  Category = "greet"
	CategoryFarewell  Category = "bye"
	CategoryThanks    Category = "thanks"
	CategoryAck       Category = "ack"
	CategoryIdentity  Category = "about"
	CategoryHelp      Category = "help"
	CategorySmallTalk Category = "smalltalk"
)

// AnswerSource tags where a reply came from. Transports use it for the
// feedback prompt policy only.
type AnswerSource string

const (
	SourceLocal          AnswerSource = "local"
	SourceBuiltin        AnswerSource = "builtin"
	SourceLearned        AnswerSource = "learned"
	SourceMemory         AnswerSource = "memory"
	SourceWeb            AnswerSource = "web"
	SourceConversational AnswerSource = "conversational"
)

// Reply is the outcome of one dialogue turn.
type Reply struct {
	Text   string       `json:"text"`
	Source AnswerSource `json:"source"`
	// Query is the effective query the answer was produced for, empty for
	// conversational replies.
	Query string `json:"query,omitempty"`
}
