package core

import "context"

// CacheHit is one semantic cache match, ordered by Similarity descending.
type CacheHit struct {
	Content    string            `json:"content"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type SemanticCache interface {
	Lookup(ctx context.Context, query string, k int) ([]CacheHit, error)
	Index(ctx context.Context, text string, metadata map[string]string) error
}

// ConversationLog keeps session turns and renders the recent context string.
type ConversationLog interface {
	Append(ctx context.Context, sessionID string, role Role, content string) error
	Context(ctx context.Context, sessionID string, n int) (string, error)
	Recent(ctx context.Context, sessionID string, n int) ([]Turn, error)
}

// KnowledgeRecorder persists retrieved chunks and makes them searchable.
type KnowledgeRecorder interface {
	Record(ctx context.Context, query string, chunk SourceChunk) error
}

// StatsProvider builds the statistics snapshot shown by the stats command.
type StatsProvider interface {
	Snapshot(ctx context.Context, sessionID string) (Snapshot, error)
}

// UsageLogger records which method answered a query.
type UsageLogger interface {
	LogQuery(ctx context.Context, query, answer, method string, success bool) error
}

// MemoryResetter wipes knowledge, cache and the session's conversation.
type MemoryResetter interface {
	Clear(ctx context.Context, sessionID string) error
}
