package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sandevgo/musage/internal/core"
)

type scriptedDialogue struct {
	source core.AnswerSource
	seen   []string
}

func (d *scriptedDialogue) Handle(_ context.Context, _ string, text string) core.Reply {
	d.seen = append(d.seen, text)
	return core.Reply{Text: "answer to " + text, Source: d.source}
}

func (d *scriptedDialogue) Greeting(context.Context) string { return "hello" }

func (d *scriptedDialogue) Reset(context.Context, string) error { return nil }

type echoRouter struct {
	inputs []string
}

func (r *echoRouter) Execute(_ context.Context, _ string, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}
	r.inputs = append(r.inputs, input)
	return "**ran** " + input, true
}

func (r *echoRouter) ListCommands() []core.Command { return nil }

func newTestReadLine(source core.AnswerSource, confirm bool) (*ReadLine, *scriptedDialogue, *echoRouter, *bytes.Buffer) {
	d := &scriptedDialogue{source: source}
	router := &echoRouter{}
	out := &bytes.Buffer{}
	r := &ReadLine{
		dialogue: d,
		router:   router,
		out:      out,
		policy:   newFeedbackPolicy(2),
		confirm:  func(string) bool { return confirm },
	}
	return r, d, router, out
}

func TestReadLine_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("quit words stop the loop", func(t *testing.T) {
		r, _, _, _ := newTestReadLine(core.SourceWeb, true)
		for _, w := range []string{"exit", "QUIT", " q "} {
			assert.False(t, r.handle(ctx, w))
		}
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		r, d, _, out := newTestReadLine(core.SourceWeb, true)
		assert.True(t, r.handle(ctx, "   "))
		assert.Empty(t, d.seen)
		assert.Zero(t, out.Len())
	})

	t.Run("commands go to the router", func(t *testing.T) {
		r, d, router, out := newTestReadLine(core.SourceWeb, true)
		assert.True(t, r.handle(ctx, "/stats"))
		assert.True(t, r.handle(ctx, "learnstats"))
		assert.Equal(t, []string{"/stats", "/learnstats"}, router.inputs)
		assert.Empty(t, d.seen)
		assert.Contains(t, out.String(), "ran /stats")
		assert.NotContains(t, out.String(), "**")
	})

	t.Run("clear needs confirmation", func(t *testing.T) {
		r, _, router, out := newTestReadLine(core.SourceWeb, false)
		assert.True(t, r.handle(ctx, "clear"))
		assert.Empty(t, router.inputs)
		assert.Contains(t, out.String(), "Cancelled.")

		r, _, router, _ = newTestReadLine(core.SourceWeb, true)
		assert.True(t, r.handle(ctx, "/clear"))
		assert.Equal(t, []string{"/clear"}, router.inputs)
	})

	t.Run("questions go to the dialogue", func(t *testing.T) {
		r, d, _, out := newTestReadLine(core.SourceWeb, true)
		assert.True(t, r.handle(ctx, "what is go?"))
		assert.Equal(t, []string{"what is go?"}, d.seen)
		assert.Contains(t, out.String(), "answer to what is go?")
		assert.NotContains(t, out.String(), feedbackHint)

		assert.True(t, r.handle(ctx, "what is rust?"))
		assert.Contains(t, out.String(), feedbackHint)
	})
}

func TestFeedbackPolicy(t *testing.T) {
	p := newFeedbackPolicy(0)
	assert.Equal(t, 5, p.every)

	for _, src := range []core.AnswerSource{
		core.SourceLocal, core.SourceBuiltin, core.SourceLearned,
		core.SourceMemory, core.SourceConversational,
	} {
		assert.False(t, p.Due(src), src)
	}

	var due []bool
	for range 10 {
		due = append(due, p.Due(core.SourceWeb))
	}
	assert.Equal(t, []bool{false, false, false, false, true, false, false, false, false, true}, due)
}
