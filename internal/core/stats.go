package core

import "time"

type KnowledgeStats struct {
	TotalEntries  int     `json:"total_entries"`
	AvgUsefulness float64 `json:"avg_usefulness"`
	MostAccessed  string  `json:"most_accessed,omitempty"`
}

type IndexStats struct {
	TotalEmbeddings int    `json:"total_embeddings"`
	Engine          string `json:"engine"`
}

type ConversationStats struct {
	TotalMessages int       `json:"total_messages"`
	SessionStart  time.Time `json:"session_start"`
}

type Snapshot struct {
	Knowledge    KnowledgeStats    `json:"knowledge"`
	Index        IndexStats        `json:"index"`
	Conversation ConversationStats `json:"conversation"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type LearningStats struct {
	TotalQueries     int            `json:"total_queries"`
	LearnedCount     int            `json:"learned_count"`
	PositiveFeedback int            `json:"positive_feedback"`
	NegativeFeedback int            `json:"negative_feedback"`
	MethodCounts     map[string]int `json:"method_counts"`
	TopTopics        []TopicCount   `json:"top_topics"`
}
