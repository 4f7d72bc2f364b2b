package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/providers/rag"
	"github.com/sandevgo/musage/pkg/log"
)

// Cache is a brute-force cosine index over stored vectors. The vector table
// is loaded into memory on first use and kept in sync by Index and Clear.
type Cache struct {
	repo     core.VectorRepository
	embedder core.Embedder

	mu      sync.RWMutex
	loaded  bool
	entries []core.VectorEntry
}

func NewCache(repo core.VectorRepository, embedder core.Embedder) *Cache {
	return &Cache{repo: repo, embedder: embedder}
}

// Lookup returns up to k entries ordered by similarity to query, highest
// first.
func (c *Cache) Lookup(ctx context.Context, query string, k int) ([]core.CacheHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := c.load(ctx); err != nil {
		return nil, err
	}

	vec, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	c.mu.RLock()
	hits := make([]core.CacheHit, 0, len(c.entries))
	for _, e := range c.entries {
		hits = append(hits, core.CacheHit{
			Content:    e.Content,
			Similarity: rag.Cosine(vec, e.Embedding),
			Metadata:   e.Metadata,
		})
	}
	c.mu.RUnlock()

	slices.SortStableFunc(hits, func(a, b core.CacheHit) int {
		switch {
		case a.Similarity > b.Similarity:
			return -1
		case a.Similarity < b.Similarity:
			return 1
		}
		return 0
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	log.FromCtx(ctx).Debug().Int("hits", len(hits)).Str("query", query).Msg("semantic cache lookup")
	return hits, nil
}

func (c *Cache) Index(ctx context.Context, text string, metadata map[string]string) error {
	if err := c.load(ctx); err != nil {
		return err
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to embed text: %w", err)
	}
	entry := core.VectorEntry{Content: text, Metadata: maps.Clone(metadata), Embedding: vec}
	if err := c.repo.SaveVector(ctx, entry); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return nil
}

func (c *Cache) Count(ctx context.Context) (int, error) {
	if err := c.load(ctx); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.repo.Clear(ctx); err != nil {
		return err
	}
	c.entries = nil
	c.loaded = true
	return nil
}

func (c *Cache) load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	entries, err := c.repo.ListVectors(ctx)
	if err != nil {
		return fmt.Errorf("failed to load semantic index: %w", err)
	}
	c.entries = entries
	c.loaded = true
	log.FromCtx(ctx).Info().Int("entries", len(entries)).Msg("semantic index loaded")
	return nil
}
