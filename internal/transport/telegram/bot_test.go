package telegram

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/musage/internal/core"
)

type stubDialogue struct {
	reply core.Reply
	seen  []string
}

func (d *stubDialogue) Handle(_ context.Context, sessionID, text string) core.Reply {
	d.seen = append(d.seen, sessionID+":"+text)
	return d.reply
}

func (d *stubDialogue) Greeting(context.Context) string { return "hello" }

func (d *stubDialogue) Reset(context.Context, string) error { return nil }

type stubRouter struct{}

func (stubRouter) Execute(_ context.Context, _ string, input string) (string, bool) {
	if input != "/stats" {
		return "", false
	}
	return "**Stats** `ok`", true
}

func (stubRouter) ListCommands() []core.Command { return nil }

func TestBot_Respond(t *testing.T) {
	ctx := context.Background()
	d := &stubDialogue{reply: core.Reply{Text: "1 < 2 & 3 > 2", Source: core.SourceLocal}}
	b := &Bot{dialogue: d, router: stubRouter{}}

	assert.Equal(t, "<strong>Stats</strong> <code>ok</code>", b.respond(ctx, sessionID(42), "/stats"))
	assert.Empty(t, d.seen)

	assert.Equal(t, "1 &lt; 2 &amp; 3 &gt; 2", b.respond(ctx, sessionID(42), "compare"))
	assert.Equal(t, []string{"telegram-42:compare"}, d.seen)
}

func TestSplitHTML(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitHTML("short", 10))

	text := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	assert.Equal(t, []string{strings.Repeat("a", 8), strings.Repeat("b", 8)}, splitHTML(text, 10))

	runes := strings.Repeat("é", 10) // 20 bytes
	chunks := splitHTML(runes, 7)
	assert.Equal(t, runes, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, len(c), 7)
	}
}
