package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/retry"
)

const testAgent = "MuSageTest/1.0"

func fastRetrier(maxRetries int) *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	})
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestRank(t *testing.T) {
	in := []core.SearchResult{
		{URL: "https://www.bbc.co.uk/news/1"},
		{URL: "https://blog.example.com/a"},
		{URL: "https://en.wikipedia.org/wiki/Go"},
		{URL: "https://blog.example.com/b"},
		{URL: "https://stackoverflow.com/q/1"},
	}

	got := Rank(in)

	urls := make([]string, len(got))
	for i, r := range got {
		urls[i] = r.URL
	}
	assert.Equal(t, []string{
		"https://en.wikipedia.org/wiki/Go",
		"https://stackoverflow.com/q/1",
		"https://blog.example.com/a",
		"https://blog.example.com/b",
		"https://www.bbc.co.uk/news/1",
	}, urls)
	assert.Equal(t, "https://www.bbc.co.uk/news/1", in[0].URL, "input must not be reordered")
}

func TestDuckDuckGo_Search(t *testing.T) {
	page := fixture(t, "ddg_results.html")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang generics", r.URL.Query().Get("q"))
		assert.Equal(t, testAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client(), fastRetrier(0), srv.URL+"/html/", testAgent, 3)
	results, err := d.Search(context.Background(), "golang generics")
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, core.SearchResult{
		Title:   "Go (programming language) - Wikipedia",
		URL:     "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Snippet: "Go is a statically typed, compiled language.",
	}, results[0])
	assert.Equal(t, "https://example.com/go-generics", results[1].URL)
	assert.Equal(t, "https://go.dev/doc/tutorial/generics", results[2].URL)
}

func TestDuckDuckGo_Retries(t *testing.T) {
	page := fixture(t, "ddg_results.html")

	t.Run("server errors are retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write(page)
		}))
		defer srv.Close()

		d := NewDuckDuckGo(srv.Client(), fastRetrier(2), srv.URL, testAgent, 5)
		results, err := d.Search(context.Background(), "go")
		require.NoError(t, err)
		assert.Len(t, results, 4)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("client errors are not", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		d := NewDuckDuckGo(srv.Client(), fastRetrier(3), srv.URL, testAgent, 5)
		_, err := d.Search(context.Background(), "go")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 403")
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestUnwrapRedirect(t *testing.T) {
	assert.Equal(t, "https://go.dev/", unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=x"))
	assert.Equal(t, "https://go.dev/", unwrapRedirect("https://go.dev/"))
}

func TestCleanText(t *testing.T) {
	text := "Intro line.\n" +
		"Image caption: A crowd outside\n" +
		"Getty Images, some photographer\n" +
		"Markets rallied on Monday, AFP reported.\n\n\n\n" +
		"Share this article on social media\n" +
		"Read more: another story\n" +
		"Closing &amp; remarks <span class=\"x\">here</span>."

	got := cleanText(text, 0)

	assert.NotContains(t, got, "Image caption")
	assert.NotContains(t, got, "Getty")
	assert.NotContains(t, got, "AFP")
	assert.NotContains(t, got, "Share this")
	assert.NotContains(t, got, "Read more")
	assert.NotContains(t, got, "&amp;")
	assert.NotContains(t, got, "<span")
	assert.NotContains(t, got, "\n\n\n")
	assert.True(t, strings.HasPrefix(got, "Intro line."))

	cut := cleanText(strings.Repeat("é", 20), 10)
	assert.Equal(t, strings.Repeat("é", 10)+"...", cut)
}

func TestHostLimiter(t *testing.T) {
	l := newHostLimiter(80 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, l.Wait(ctx, "a.example"))
	require.NoError(t, l.Wait(ctx, "b.example"))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "distinct hosts do not wait")

	require.NoError(t, l.Wait(ctx, "a.example"))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, l.Wait(cancelled, "a.example"), context.Canceled)
}

func TestWeb_Online(t *testing.T) {
	defer goleak.VerifyNone(t)

	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		assert.Equal(t, http.MethodHead, r.Method)
	}))
	defer srv.Close()

	w := &Web{client: srv.Client(), probeURL: srv.URL}
	assert.True(t, w.Online(context.Background()))
	assert.True(t, w.Online(context.Background()))
	assert.Equal(t, int32(1), probes.Load())

	off := &Web{client: srv.Client(), probeURL: srv.URL, offline: true}
	assert.False(t, off.Online(context.Background()))
	assert.Equal(t, int32(1), probes.Load())
}
