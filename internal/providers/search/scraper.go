package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"golang.org/x/net/html"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/retry"
)

var ErrDisallowed = errors.New("disallowed by robots.txt")

var contentClassRe = regexp.MustCompile(`(?i)(content|main|article|post|entry)`)

var strippedTags = map[string]bool{
	"script": true, "style": true, "nav": true, "footer": true,
	"header": true, "aside": true, "iframe": true, "noscript": true,
}

// Scraper downloads pages politely and extracts their readable text.
type Scraper struct {
	client    *http.Client
	retrier   *retry.Retrier
	robots    *robots
	limiter   *hostLimiter
	userAgent string
	maxLen    int
}

type ScraperOptions struct {
	UserAgent string
	// MaxLen caps the extracted text in characters.
	MaxLen int
	// Interval is the minimum delay between requests to one host.
	Interval time.Duration
}

func NewScraper(client *http.Client, retrier *retry.Retrier, opts ScraperOptions) *Scraper {
	return &Scraper{
		client:    client,
		retrier:   retrier,
		robots:    newRobots(client, opts.UserAgent),
		limiter:   newHostLimiter(opts.Interval),
		userAgent: opts.UserAgent,
		maxLen:    opts.MaxLen,
	}
}

// Scrape fetches rawURL and returns its main text. Pages excluded by
// robots.txt yield ErrDisallowed.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (core.SourceChunk, error) {
	page, err := url.Parse(rawURL)
	if err != nil || page.Host == "" {
		return core.SourceChunk{}, fmt.Errorf("invalid page url %q", rawURL)
	}
	if !s.robots.Allowed(ctx, page) {
		return core.SourceChunk{}, fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	log.FromCtx(ctx).Info().Str("url", rawURL).Msg("scraping page")

	var body []byte
	err = s.retrier.Do(ctx, func() error {
		if err := s.limiter.Wait(ctx, page.Host); err != nil {
			return retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch page: %w", err)
		}
		defer resp.Body.Close()

		if err := statusError(resp); err != nil {
			return err
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("failed to read page: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.SourceChunk{}, err
	}

	return s.extract(rawURL, body)
}

func (s *Scraper) extract(rawURL string, body []byte) (core.SourceChunk, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return core.SourceChunk{}, fmt.Errorf("failed to parse page: %w", err)
	}

	chunk := core.SourceChunk{URL: rawURL, Title: pageTitle(doc)}
	description := metaDescription(doc)

	stripTags(doc)
	var buf bytes.Buffer
	if err := html.Render(&buf, mainContent(doc)); err != nil {
		return core.SourceChunk{}, fmt.Errorf("failed to render content: %w", err)
	}
	text, err := html2text.FromString(buf.String(), html2text.Options{OmitLinks: true})
	if err != nil {
		return core.SourceChunk{}, fmt.Errorf("failed to convert page to text: %w", err)
	}

	chunk.Content = cleanText(text, s.maxLen)
	if chunk.Content == "" {
		chunk.Content = description
	}
	return chunk, nil
}

func stripTags(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && strippedTags[c.Data] {
			n.RemoveChild(c)
		} else {
			stripTags(c)
		}
		c = next
	}
}

// mainContent picks the node most likely to hold the article: main or
// article elements, then the content-classed div with the most text, then
// the body.
func mainContent(doc *html.Node) *html.Node {
	for _, match := range []func(*html.Node) bool{
		func(n *html.Node) bool { return n.Data == "main" },
		func(n *html.Node) bool { return n.Data == "article" },
		func(n *html.Node) bool { return n.Data == "div" && attr(n, "role") == "main" },
	} {
		if n := find(doc, match); n != nil {
			return n
		}
	}

	var (
		best     *html.Node
		bestSize int
	)
	walkElements(doc, func(n *html.Node) {
		if n.Data != "div" || !contentClassRe.MatchString(attr(n, "class")) {
			return
		}
		if size := len(textContent(n)); best == nil || size > bestSize {
			best, bestSize = n, size
		}
	})
	if best != nil {
		return best
	}

	if body := find(doc, func(n *html.Node) bool { return n.Data == "body" }); body != nil {
		return body
	}
	return doc
}

func pageTitle(doc *html.Node) string {
	if t := find(doc, func(n *html.Node) bool { return n.Data == "title" }); t != nil {
		if title := textContent(t); title != "" {
			return title
		}
	}
	if h := find(doc, func(n *html.Node) bool { return n.Data == "h1" }); h != nil {
		return textContent(h)
	}
	return ""
}

func metaDescription(doc *html.Node) string {
	var desc, og string
	walkElements(doc, func(n *html.Node) {
		if n.Data != "meta" {
			return
		}
		switch {
		case attr(n, "name") == "description" && desc == "":
			desc = strings.TrimSpace(attr(n, "content"))
		case attr(n, "property") == "og:description" && og == "":
			og = strings.TrimSpace(attr(n, "content"))
		}
	})
	if desc != "" {
		return desc
	}
	return og
}

// find returns the first element in document order accepted by match.
func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}
