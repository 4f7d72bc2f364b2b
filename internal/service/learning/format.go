package learning

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/sandevgo/musage/internal/core"
)

// Satisfaction is the share of positive feedback as a whole percentage.
func Satisfaction(s core.LearningStats) int {
	total := s.PositiveFeedback + s.NegativeFeedback
	if total == 0 {
		return 0
	}
	return s.PositiveFeedback * 100 / total
}

func FormatStats(s core.LearningStats) string {
	var b strings.Builder
	b.WriteString("📈 " + core.AppName + " Learning Statistics\n")
	b.WriteString(strings.Repeat("─", 40) + "\n")

	b.WriteString("\nUsage\n")
	fmt.Fprintf(&b, "  Total queries : %d\n", s.TotalQueries)
	fmt.Fprintf(&b, "  Learned Q&A   : %d\n", s.LearnedCount)
	if len(s.MethodCounts) > 0 {
		methods := slices.SortedFunc(maps.Keys(s.MethodCounts), func(x, y string) int {
			if c := cmp.Compare(s.MethodCounts[y], s.MethodCounts[x]); c != 0 {
				return c
			}
			return strings.Compare(x, y)
		})
		parts := make([]string, len(methods))
		for i, m := range methods {
			parts[i] = fmt.Sprintf("%s %d", m, s.MethodCounts[m])
		}
		fmt.Fprintf(&b, "  Answered by   : %s\n", strings.Join(parts, ", "))
	}

	b.WriteString("\nFeedback\n")
	fmt.Fprintf(&b, "  Positive      : %d\n", s.PositiveFeedback)
	fmt.Fprintf(&b, "  Negative      : %d\n", s.NegativeFeedback)
	fmt.Fprintf(&b, "  Satisfaction  : %d%%\n", Satisfaction(s))

	b.WriteString("\nTop Topics\n")
	if len(s.TopTopics) == 0 {
		b.WriteString("  • (no topics tracked yet)\n")
	}
	for _, t := range s.TopTopics {
		fmt.Fprintf(&b, "  • %s: %d queries\n", t.Topic, t.Count)
	}

	b.WriteString("\nThe more you use " + core.AppName + ", the smarter it gets!")
	return b.String()
}
