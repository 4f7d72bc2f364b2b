package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/retry"
)

const (
	maxResponseSize = 1 << 20
	// Extra results requested so that ranking has something to reorder.
	rankSlack      = 4
	redirectPrefix = "//duckduckgo.com/l/?uddg="
)

// DuckDuckGo queries the HTML endpoint of DuckDuckGo, which needs no API key.
type DuckDuckGo struct {
	client     *http.Client
	retrier    *retry.Retrier
	endpoint   string
	userAgent  string
	maxResults int
}

func NewDuckDuckGo(client *http.Client, retrier *retry.Retrier, endpoint, userAgent string, maxResults int) *DuckDuckGo {
	return &DuckDuckGo{
		client:     client,
		retrier:    retrier,
		endpoint:   endpoint,
		userAgent:  userAgent,
		maxResults: maxResults,
	}
}

// Search returns at most maxResults ranked results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	u, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search endpoint: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()

	var results []core.SearchResult
	err = d.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", d.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := d.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to query search engine: %w", err)
		}
		defer resp.Body.Close()

		if err := statusError(resp); err != nil {
			return err
		}

		results, err = parseResults(io.LimitReader(resp.Body, maxResponseSize), d.maxResults+rankSlack)
		return err
	})
	if err != nil {
		return nil, err
	}

	results = Rank(results)
	if len(results) > d.maxResults {
		results = results[:d.maxResults]
	}
	return results, nil
}

// parseResults extracts up to limit results from a DuckDuckGo HTML page.
func parseResults(r io.Reader, limit int) ([]core.SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to parse results page: %w", err))
	}

	var results []core.SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attr(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				if res := extractResult(n); res.URL != "" && res.Title != "" {
					results = append(results, res)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func extractResult(n *html.Node) core.SearchResult {
	var res core.SearchResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attr(n, "class")
			switch {
			case strings.Contains(class, "result__a"):
				res.URL = attr(n, "href")
				res.Title = textContent(n)
			case strings.Contains(class, "result__snippet"):
				res.Snippet = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	res.URL = unwrapRedirect(res.URL)
	return res
}

// unwrapRedirect turns a DuckDuckGo click-through link into the target URL.
func unwrapRedirect(link string) string {
	if !strings.HasPrefix(link, redirectPrefix) {
		return link
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, redirectPrefix))
	if err != nil {
		return link
	}
	if i := strings.Index(decoded, "&"); i > 0 {
		decoded = decoded[:i]
	}
	return decoded
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				sb.WriteString(s)
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// statusError classifies an HTTP status. Client errors other than 429 are
// not worth retrying.
func statusError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	err := fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return retry.Permanent(err)
	}
	return err
}
