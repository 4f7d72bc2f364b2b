package core

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by capability probes of optional providers.
var ErrUnavailable = errors.New("provider unavailable")

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SourceChunk is a block of retrieved text with its provenance.
type SourceChunk struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

type Retriever interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
	Fetch(ctx context.Context, urls []string) ([]SourceChunk, error)
	Online(ctx context.Context) bool
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// InstantAnswerer answers a query without synthesis. The first provider
// returning ok=true wins.
type InstantAnswerer interface {
	Name() string
	Source() AnswerSource
	TryAnswer(ctx context.Context, query string) (string, bool)
}

// Capability is implemented by providers that depend on something which may
// be missing at runtime. It is checked once at startup.
type Capability interface {
	Available(ctx context.Context) error
}
