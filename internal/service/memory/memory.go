package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/providers/rag"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	metaQuery       = "query"
	metaSource      = "source"
	metaTitle       = "title"
	metaKnowledgeID = "knowledge_id"
)

// Memory ties the conversation log, the knowledge base and the semantic
// cache together.
type Memory struct {
	turns     core.TurnRepository
	knowledge core.KnowledgeRepository
	cache     *Cache
	chunker   *rag.Chunker
	engine    string
}

func NewMemory(
	turns core.TurnRepository,
	knowledge core.KnowledgeRepository,
	cache *Cache,
	chunker *rag.Chunker,
	engine string,
) *Memory {
	return &Memory{
		turns:     turns,
		knowledge: knowledge,
		cache:     cache,
		chunker:   chunker,
		engine:    engine,
	}
}

func (m *Memory) Append(ctx context.Context, sessionID string, role core.Role, content string) error {
	return m.turns.AddTurn(ctx, sessionID, role, content)
}

func (m *Memory) Recent(ctx context.Context, sessionID string, n int) ([]core.Turn, error) {
	if n <= 0 {
		return nil, nil
	}
	return m.turns.GetTurns(ctx, sessionID, n)
}

// Context renders the last n turns as "User: ..." / "Assistant: ..." lines.
func (m *Memory) Context(ctx context.Context, sessionID string, n int) (string, error) {
	turns, err := m.Recent(ctx, sessionID, n)
	if err != nil {
		return "", fmt.Errorf("failed to get history: %w", err)
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "User"
		if t.Role == core.RoleAssistant {
			speaker = "Assistant"
		}
		lines = append(lines, speaker+": "+t.Content)
	}
	return strings.Join(lines, "\n"), nil
}

// Record stores chunk as a knowledge entry and indexes its passages.
func (m *Memory) Record(ctx context.Context, query string, chunk core.SourceChunk) error {
	content := strings.TrimSpace(chunk.Content)
	if content == "" {
		return nil
	}

	id, err := m.knowledge.SaveEntry(ctx, core.KnowledgeEntry{
		Query:   query,
		Content: content,
		Source:  chunk.URL,
		Title:   chunk.Title,
	})
	if err != nil {
		return err
	}

	meta := map[string]string{
		metaQuery:       query,
		metaSource:      chunk.URL,
		metaTitle:       chunk.Title,
		metaKnowledgeID: strconv.FormatInt(id, 10),
	}
	passages := m.chunker.Split(content)
	for _, p := range passages {
		if err := m.cache.Index(ctx, p.Text, meta); err != nil {
			return fmt.Errorf("failed to index passage %d: %w", p.Index, err)
		}
	}

	log.FromCtx(ctx).Debug().
		Int64("entry", id).
		Int("passages", len(passages)).
		Str("source", chunk.URL).
		Msg("knowledge recorded")
	return nil
}

// Lookup searches the semantic cache and bumps the access count of the
// knowledge entries it returns.
func (m *Memory) Lookup(ctx context.Context, query string, k int) ([]core.CacheHit, error) {
	hits, err := m.cache.Lookup(ctx, query, k)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(hits))
	for _, h := range hits {
		id, err := strconv.ParseInt(h.Metadata[metaKnowledgeID], 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		if err := m.knowledge.Touch(ctx, id); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Int64("entry", id).Msg("failed to touch knowledge entry")
		}
	}
	return hits, nil
}

func (m *Memory) Index(ctx context.Context, text string, metadata map[string]string) error {
	return m.cache.Index(ctx, text, metadata)
}

func (m *Memory) Snapshot(ctx context.Context, sessionID string) (core.Snapshot, error) {
	var snap core.Snapshot

	kb, err := m.knowledge.Stats(ctx)
	if err != nil {
		return snap, err
	}
	snap.Knowledge = kb

	indexed, err := m.cache.Count(ctx)
	if err != nil {
		return snap, err
	}
	snap.Index = core.IndexStats{TotalEmbeddings: indexed, Engine: m.engine}

	count, started, err := m.turns.CountTurns(ctx, sessionID)
	if err != nil {
		return snap, err
	}
	snap.Conversation = core.ConversationStats{TotalMessages: count, SessionStart: started}

	return snap, nil
}

// Clear empties the knowledge base, the semantic cache and the session's
// conversation.
func (m *Memory) Clear(ctx context.Context, sessionID string) error {
	if err := m.knowledge.Clear(ctx); err != nil {
		return err
	}
	if err := m.cache.Clear(ctx); err != nil {
		return err
	}
	if err := m.turns.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	log.FromCtx(ctx).Info().Str("session", sessionID).Msg("memory cleared")
	return nil
}
