package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/providers/rag"
	"github.com/sandevgo/musage/internal/storage/sqlite"
	"github.com/sandevgo/musage/test"
)

type fixture struct {
	mem     *Memory
	vectors *sqlite.VectorRepo
	embed   *rag.HashEmbedder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := test.OpenDB(t)

	embedder := rag.NewHashEmbedder(rag.DefaultDims)
	vectors := sqlite.NewVectorRepo(db)
	mem := NewMemory(
		sqlite.NewTurnsRepo(db),
		sqlite.NewKnowledgeRepo(db),
		NewCache(vectors, embedder),
		rag.NewChunker(rag.DefaultChunkerConfig(), &rag.Words{}),
		embedder.Engine(),
	)
	return fixture{mem: mem, vectors: vectors, embed: embedder}
}

var (
	mlChunk = core.SourceChunk{
		Content: "Machine learning is a subset of AI. Machine learning systems learn from data.",
		Title:   "Machine learning",
		URL:     "https://en.wikipedia.org/wiki/Machine_learning",
	}
	parisChunk = core.SourceChunk{
		Content: "Paris is the capital of France.",
		Title:   "Paris",
		URL:     "https://en.wikipedia.org/wiki/Paris",
	}
)

func TestMemory_Context(t *testing.T) {
	ctx := context.Background()
	m := newFixture(t).mem

	got, err := m.Context(ctx, "s1", 6)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, m.Append(ctx, "s1", core.RoleUser, "hi"))
	require.NoError(t, m.Append(ctx, "s1", core.RoleAssistant, "hello"))
	require.NoError(t, m.Append(ctx, "s1", core.RoleUser, "what is go?"))
	require.NoError(t, m.Append(ctx, "s2", core.RoleUser, "other session"))

	got, err = m.Context(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, "Assistant: hello\nUser: what is go?", got)

	turns, err := m.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemory_RecordAndLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.mem.Record(ctx, "machine learning", mlChunk))
	require.NoError(t, f.mem.Record(ctx, "paris", parisChunk))
	require.NoError(t, f.mem.Record(ctx, "blank", core.SourceChunk{Content: "  \n"}))

	hits, err := f.mem.Lookup(ctx, "what is machine learning", 3)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, mlChunk.Content, hits[0].Content)
	assert.Greater(t, hits[0].Similarity, 0.3)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
	assert.Equal(t, mlChunk.URL, hits[0].Metadata["source"])
	assert.Equal(t, "machine learning", hits[0].Metadata["query"])

	snap, err := f.mem.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Knowledge.TotalEntries)
	assert.Equal(t, "machine learning", snap.Knowledge.MostAccessed)

	hits, err = f.mem.Lookup(ctx, "capital of france", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, parisChunk.Content, hits[0].Content)

	snap, err = f.mem.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "paris", snap.Knowledge.MostAccessed)
}

func TestCache_ReloadsPersistedVectors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.mem.Record(ctx, "machine learning", mlChunk))

	fresh := NewCache(f.vectors, f.embed)
	n, err := fresh.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := fresh.Lookup(ctx, "machine learning", 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Greater(t, hits[0].Similarity, 0.5)

	hits, err = fresh.Lookup(ctx, "machine learning", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemory_Snapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.mem.Append(ctx, "s1", core.RoleUser, "what is machine learning?"))
	require.NoError(t, f.mem.Append(ctx, "s1", core.RoleAssistant, "Machine learning is a subset of AI."))
	require.NoError(t, f.mem.Record(ctx, "machine learning", mlChunk))

	snap, err := f.mem.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Knowledge.TotalEntries)
	assert.InDelta(t, 0.5, snap.Knowledge.AvgUsefulness, 1e-9)
	assert.Equal(t, core.IndexStats{TotalEmbeddings: 1, Engine: "feature-hash/512"}, snap.Index)
	assert.Equal(t, 2, snap.Conversation.TotalMessages)
	assert.False(t, snap.Conversation.SessionStart.IsZero())
}

func TestMemory_Clear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.mem.Append(ctx, "s1", core.RoleUser, "hi"))
	require.NoError(t, f.mem.Append(ctx, "s2", core.RoleUser, "hello"))
	require.NoError(t, f.mem.Record(ctx, "machine learning", mlChunk))

	require.NoError(t, f.mem.Clear(ctx, "s1"))

	hits, err := f.mem.Lookup(ctx, "machine learning", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	stored, err := f.vectors.CountVectors(ctx)
	require.NoError(t, err)
	assert.Zero(t, stored)

	snap, err := f.mem.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, snap.Knowledge.TotalEntries)
	assert.Zero(t, snap.Index.TotalEmbeddings)
	assert.Zero(t, snap.Conversation.TotalMessages)

	other, err := f.mem.Recent(ctx, "s2", 10)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
