package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/retry"
)

// fetchConcurrency bounds the pages downloaded at once by one Fetch call.
const fetchConcurrency = 3

// Web is the core.Retriever backed by DuckDuckGo and the page scraper.
type Web struct {
	engine   *DuckDuckGo
	scraper  *Scraper
	client   *http.Client
	probeURL string
	offline  bool

	probeOnce sync.Once
	online    bool
}

func NewWeb(cfg *config.SearchConfig, offline bool) *Web {
	client := &http.Client{Timeout: cfg.Timeout}
	retryCfg := retry.NewDefaultConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	retrier := retry.NewRetrier(retryCfg)

	return &Web{
		engine: NewDuckDuckGo(client, retrier, cfg.Endpoint, cfg.UserAgent, cfg.MaxResults),
		scraper: NewScraper(client, retrier, ScraperOptions{
			UserAgent: cfg.UserAgent,
			MaxLen:    cfg.MaxContentLength,
			Interval:  cfg.RateLimit,
		}),
		client:   client,
		probeURL: cfg.ProbeURL,
		offline:  offline,
	}
}

func (w *Web) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	results, err := w.engine.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	log.FromCtx(ctx).Info().Int("results", len(results)).Str("query", query).Msg("search finished")
	return results, nil
}

// Fetch scrapes urls concurrently. Pages that fail are skipped; the rest are
// returned in the order of urls.
func (w *Web) Fetch(ctx context.Context, urls []string) ([]core.SourceChunk, error) {
	logger := log.FromCtx(ctx)
	pages := make([]*core.SourceChunk, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			chunk, err := w.scraper.Scrape(gctx, u)
			switch {
			case errors.Is(err, ErrDisallowed):
				logger.Warn().Str("url", u).Msg("robots.txt disallows page")
				return nil
			case err != nil:
				logger.Debug().Err(err).Str("url", u).Msg("page skipped")
				return nil
			}
			if strings.TrimSpace(chunk.Content) != "" {
				pages[i] = &chunk
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	chunks := make([]core.SourceChunk, 0, len(urls))
	for _, p := range pages {
		if p != nil {
			chunks = append(chunks, *p)
		}
	}
	if len(chunks) == 0 && len(urls) > 0 {
		return nil, fmt.Errorf("failed to fetch any of %d pages", len(urls))
	}
	return chunks, nil
}

// Online probes connectivity once per process. Offline mode skips the probe.
func (w *Web) Online(ctx context.Context) bool {
	if w.offline {
		return false
	}
	w.probeOnce.Do(func() {
		w.online = w.probe(ctx)
		log.FromCtx(ctx).Info().Bool("online", w.online).Msg("connectivity checked")
	})
	return w.online
}

func (w *Web) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, w.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}
