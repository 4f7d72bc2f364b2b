package synth

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSteps = 8

var (
	stepMarkerRe = regexp.MustCompile(`(?i)^\s*(?:(\d+)[.)]\s+|[-*•▸→]\s+|step\s+\d+[.:]\s*)`)
	imperativeRe = regexp.MustCompile(`^(Install|Open|Run|Click|Go\s+to|Navigate|Select|Enter|` +
		`Type|Create|Add|Edit|Save|Download|Set|Configure|` +
		`Make\s+sure|Ensure|Check)\b`)
)

// extractHowTo collects numbered or bulleted steps, falling back to
// imperative sentences. It returns "" when fewer than two steps are found.
func extractHowTo(text string) string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if stepMarkerRe.MatchString(line) {
			content := clean(strings.TrimSpace(stepMarkerRe.ReplaceAllString(line, "")))
			if len(strings.Fields(content)) >= 4 {
				steps = append(steps, strings.TrimRight(content, ".")+".")
			}
		}
		if len(steps) >= maxSteps {
			break
		}
	}

	if len(steps) < 2 {
		for _, sent := range splitSentences(text) {
			if imperativeRe.MatchString(sent) {
				steps = append(steps, strings.TrimRight(sent, ".")+".")
			}
			if len(steps) >= maxSteps {
				break
			}
		}
	}

	if len(steps) < 2 {
		return ""
	}

	lines := make([]string, 0, len(steps))
	for i, s := range headOf(steps, maxSteps) {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
	}
	return strings.Join(lines, "\n")
}
