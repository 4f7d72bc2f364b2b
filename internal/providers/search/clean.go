package search

import (
	"regexp"
	"strings"
)

type rewrite struct {
	re   *regexp.Regexp
	with string
}

// pageNoise is applied in order to the text extracted from a page.
var pageNoise = []rewrite{
	// Photo captions and agency credits, first as whole lines then inline.
	{regexp.MustCompile(`(?im)^\s*Image\s+(source|caption)[,:].*$`), ""},
	{regexp.MustCompile(`(?im)^\s*(Getty Images?|AFP|Reuters|AP Photo|PA Media|Alamy|Shutterstock|EPA)[,\s].*$`), ""},
	{regexp.MustCompile(`(?i)Image\s+(source|caption)[,:]\s*[^.\n]{0,100}`), ""},
	{regexp.MustCompile(`(?i)\b(Getty Images?|AFP|Reuters|AP Photo|PA Media|Alamy|Shutterstock|EPA)\b[,\s]*`), ""},

	{regexp.MustCompile(`(?is)Cookie Policy.*?Accept`), ""},
	{regexp.MustCompile(`(?i)Subscribe to.*?Newsletter`), ""},
	{regexp.MustCompile(`(?i)\[?Read\s+more[:\s].*?\n`), "\n"},
	{regexp.MustCompile(`(?im)^\s*(Share|Tweet|Email|Print|Save)\s+(this|article|story).*$`), ""},

	// Markup that survived conversion.
	{regexp.MustCompile(`<[^>]{1,80}>`), " "},
	{regexp.MustCompile(`&[a-z]{2,6};`), " "},

	{regexp.MustCompile(`\n\s*\n\s*\n+`), "\n\n"},
	{regexp.MustCompile(` +`), " "},
}

// cleanText strips captions, boilerplate and markup remnants and cuts the
// result to maxLen characters.
func cleanText(text string, maxLen int) string {
	for _, r := range pageNoise {
		text = r.re.ReplaceAllString(text, r.with)
	}
	text = strings.TrimSpace(text)
	if r := []rune(text); maxLen > 0 && len(r) > maxLen {
		text = string(r[:maxLen]) + "..."
	}
	return text
}
