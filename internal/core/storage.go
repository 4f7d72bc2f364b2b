package core

import (
	"context"
	"time"
)

type TurnRepository interface {
	AddTurn(ctx context.Context, sessionID string, role Role, content string) error
	GetTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
	CountTurns(ctx context.Context, sessionID string) (int, time.Time, error)
	TrimTurns(ctx context.Context, keep int) (int64, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type KnowledgeEntry struct {
	ID          int64     `json:"id"`
	Query       string    `json:"query"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	AccessCount int       `json:"access_count"`
	Usefulness  float64   `json:"usefulness"`
	CreatedAt   time.Time `json:"created_at"`
}

type KnowledgeRepository interface {
	SaveEntry(ctx context.Context, entry KnowledgeEntry) (int64, error)
	ListEntries(ctx context.Context) ([]KnowledgeEntry, error)
	Touch(ctx context.Context, id int64) error
	RateByQuery(ctx context.Context, query string, score float64) error
	Stats(ctx context.Context) (KnowledgeStats, error)
	Clear(ctx context.Context) error
}

type VectorEntry struct {
	ID        int64             `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Embedding []float32         `json:"-"`
}

type VectorRepository interface {
	SaveVector(ctx context.Context, entry VectorEntry) error
	ListVectors(ctx context.Context) ([]VectorEntry, error)
	CountVectors(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type LearnedAnswer struct {
	Query      string    `json:"query"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	UsageCount int       `json:"usage_count"`
	LearnedAt  time.Time `json:"learned_at"`
	LastUsed   time.Time `json:"last_used"`
}

type UsageRecord struct {
	Query     string    `json:"query"`
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedbackRecord struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Helpful   bool      `json:"helpful"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type LearningRepository interface {
	GetLearned(ctx context.Context, query string) (*LearnedAnswer, error)
	ListLearned(ctx context.Context, minConfidence float64) ([]LearnedAnswer, error)
	SaveLearned(ctx context.Context, answer LearnedAnswer) error
	DeleteLearned(ctx context.Context, query string) error
	MarkUsed(ctx context.Context, query string) error
	AddUsage(ctx context.Context, record UsageRecord) error
	AddFeedback(ctx context.Context, record FeedbackRecord) error
	Stats(ctx context.Context, topTopics int) (LearningStats, error)
}

// StateRepository stores the serialized dialogue state of each session.
type StateRepository interface {
	LoadState(ctx context.Context, sessionID string) ([]byte, error)
	SaveState(ctx context.Context, sessionID string, state []byte) error
	DeleteState(ctx context.Context, sessionID string) error
}
