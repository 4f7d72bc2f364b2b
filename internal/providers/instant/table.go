package instant

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	trailingQuestionRe = regexp.MustCompile(`\?+$`)
	spacesRe           = regexp.MustCompile(`\s+`)
)

type entry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type table struct {
	Entries []entry `yaml:"entries"`
}

func parseTable(data []byte) ([]entry, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode answer table: %w", err)
	}
	for i, e := range t.Entries {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("answer table entry %d is incomplete", i)
		}
	}
	if len(t.Entries) == 0 {
		return nil, fmt.Errorf("answer table is empty")
	}
	return t.Entries, nil
}

// cleanQuestion lower-cases q, drops trailing question marks and collapses
// whitespace.
func cleanQuestion(q string) string {
	q = strings.TrimSpace(strings.ToLower(q))
	q = strings.TrimSpace(trailingQuestionRe.ReplaceAllString(q, ""))
	return spacesRe.ReplaceAllString(q, " ")
}
