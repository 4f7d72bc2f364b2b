package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/musage/internal/core"
)

const topicPreviewRunes = 60

// FormatStats renders the statistics snapshot shown by the stats command.
func FormatStats(s core.Snapshot) string {
	lines := []string{"📊 " + core.AppName + " Statistics\n" + strings.Repeat("─", 40)}

	lines = append(lines,
		"\nKnowledge Base",
		fmt.Sprintf("  Entries    : %d", s.Knowledge.TotalEntries),
		fmt.Sprintf("  Usefulness : %.0f%%", s.Knowledge.AvgUsefulness*100),
	)
	if top := s.Knowledge.MostAccessed; top != "" {
		r := []rune(top)
		if len(r) > topicPreviewRunes {
			top = string(r[:topicPreviewRunes]) + "..."
		}
		lines = append(lines, "  Top topic  : "+top)
	}

	lines = append(lines,
		"\nSemantic Index",
		fmt.Sprintf("  Indexed    : %d items", s.Index.TotalEmbeddings),
		"  Engine     : "+s.Index.Engine,
	)

	lines = append(lines,
		"\nConversation",
		fmt.Sprintf("  Messages   : %d", s.Conversation.TotalMessages),
	)
	if !s.Conversation.SessionStart.IsZero() {
		lines = append(lines, "  Started    : "+s.Conversation.SessionStart.Format(time.DateTime))
	}

	return strings.Join(lines, "\n")
}
