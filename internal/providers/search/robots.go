package search

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/sandevgo/musage/pkg/log"
)

const maxRobotsSize = 512 << 10

// robots caches the robots.txt rules of every host it has seen.
type robots struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

func newRobots(client *http.Client, userAgent string) *robots {
	return &robots{client: client, userAgent: userAgent, hosts: make(map[string]*robotstxt.RobotsData)}
}

// Allowed reports whether the page may be fetched. Hosts whose robots.txt
// cannot be read are treated as allowing everything.
func (r *robots) Allowed(ctx context.Context, page *url.URL) bool {
	base := page.Scheme + "://" + page.Host

	r.mu.Lock()
	data, ok := r.hosts[base]
	r.mu.Unlock()

	if !ok {
		data = r.load(ctx, base)
		r.mu.Lock()
		r.hosts[base] = data
		r.mu.Unlock()
	}
	if data == nil {
		return true
	}

	path := page.EscapedPath()
	if path == "" {
		path = "/"
	}
	if page.RawQuery != "" {
		path += "?" + page.RawQuery
	}
	return data.TestAgent(path, r.userAgent)
}

func (r *robots) load(ctx context.Context, base string) *robotstxt.RobotsData {
	logger := log.FromCtx(ctx).With().Str("host", base).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read robots.txt, proceeding")
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		logger.Warn().Err(err).Msg("could not read robots.txt, proceeding")
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid robots.txt, proceeding")
		return nil
	}
	return data
}
