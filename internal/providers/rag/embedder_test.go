package rag

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embed(t *testing.T, e *HashEmbedder, text string) []float32 {
	t.Helper()
	v, err := e.Embed(context.Background(), text)
	require.NoError(t, err)
	return v
}

func TestHashEmbedder_Embed(t *testing.T) {
	e := NewHashEmbedder(0)
	assert.Equal(t, DefaultDims, e.Dims())
	assert.Equal(t, "feature-hash/512", e.Engine())

	doc := embed(t, e, "Machine learning is a subset of AI.")
	require.Len(t, doc, DefaultDims)

	var norm float64
	for _, x := range doc {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1, math.Sqrt(norm), 1e-5)

	assert.InDelta(t, 1, Cosine(doc, embed(t, e, "machine LEARNING is a subset of ai")), 1e-6, "case and stop words do not matter")

	related := Cosine(doc, embed(t, e, "What is machine learning?"))
	unrelated := Cosine(doc, embed(t, e, "Paris is the capital of France"))
	assert.Greater(t, related, 0.5)
	assert.Greater(t, related, unrelated)
}

func TestHashEmbedder_StopWordsOnly(t *testing.T) {
	e := NewHashEmbedder(64)
	v := embed(t, e, "what is the")
	assert.Len(t, v, 64)
	assert.Zero(t, Cosine(v, embed(t, e, "anything else")))
}

func TestHashEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHashEmbedder(8).Embed(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1, Cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1, Cosine([]float32{1, 0}, []float32{-3, 0}), 1e-9)
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 2}))
	assert.Zero(t, Cosine(nil, nil))
}
