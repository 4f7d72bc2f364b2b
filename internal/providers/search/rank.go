package search

import (
	"slices"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

// referenceDomains are preferred when ordering results.
var referenceDomains = []string{
	"wikipedia.org", "britannica.com", "stackoverflow.com", "docs.python.org",
	"developer.mozilla.org", "github.com", "reuters.com", "apnews.com", "nature.com",
	"sciencedirect.com", "investopedia.com", "healthline.com", "mayoclinic.org",
	"history.com", "nationalgeographic.com",
}

// captionedDomains produce pages full of image credits.
var captionedDomains = []string{"bbc.com", "bbc.co.uk"}

func domainScore(rawURL string) int {
	u := strings.ToLower(rawURL)
	for _, d := range referenceDomains {
		if strings.Contains(u, d) {
			return 10
		}
	}
	for _, d := range captionedDomains {
		if strings.Contains(u, d) {
			return -5
		}
	}
	return 0
}

// Rank orders results by domain quality. Results of equal quality keep their
// search engine order.
func Rank(results []core.SearchResult) []core.SearchResult {
	out := slices.Clone(results)
	slices.SortStableFunc(out, func(a, b core.SearchResult) int {
		return domainScore(b.URL) - domainScore(a.URL)
	})
	return out
}
