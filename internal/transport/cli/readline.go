package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/service/ui"
	"github.com/sandevgo/musage/pkg/conv"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	defaultSessionID = "cli-local"
	prompt           = "  ╰─ You › "
	ruleWidth        = 62
	feedbackHint     = "Was this helpful? Type /good, or /bad followed by the right answer."
	goodbye          = "Thanks for using " + core.AppName + "! Goodbye! 👋"
)

var quitWords = map[string]bool{"exit": true, "quit": true, "q": true}

// bareCommands may be typed without the leading slash.
var bareCommands = map[string]string{
	"help":       "/help",
	"learnstats": "/learnstats",
	"learning":   "/learnstats",
	"ls":         "/learnstats",
	"history":    "/history",
	"clear":      "/clear",
}

type ReadLine struct {
	dialogue core.Dialogue
	router   core.CmdRouter
	rl       *readline.Instance
	out      io.Writer
	policy   *feedbackPolicy
	confirm  func(question string) bool
}

func NewReadLine(dialogue core.Dialogue, router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	r := &ReadLine{
		dialogue: dialogue,
		router:   router,
		rl:       rl,
		out:      rl.Stdout(),
		policy:   newFeedbackPolicy(cfg.FeedbackEvery),
	}
	r.confirm = r.ask
	return r, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	fmt.Fprintln(r.out, ui.BannerStyle.Render(core.AppName+" v"+core.AppVersion))
	r.printAnswer(r.dialogue.Greeting(ctx))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if !r.handle(ctx, line) {
			fmt.Fprintln(r.out, ui.HintStyle.Render(goodbye))
			return nil
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// handle processes one input line and reports whether the loop goes on.
func (r *ReadLine) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	lower := strings.ToLower(line)
	if quitWords[lower] {
		return false
	}
	if cmd, ok := bareCommands[lower]; ok {
		line = cmd
	}

	if strings.HasPrefix(line, "/") {
		if isClear(line) && !r.confirm("Are you sure you want to clear all memory? (yes/no): ") {
			fmt.Fprintln(r.out, ui.HintStyle.Render("Cancelled."))
			return true
		}
		if out, ok := r.router.Execute(ctx, defaultSessionID, line); ok {
			fmt.Fprintln(r.out, conv.MarkdownToPlain([]byte(out)))
			fmt.Fprintln(r.out)
			return true
		}
	}

	reply := r.dialogue.Handle(ctx, defaultSessionID, line)
	r.printAnswer(reply.Text)
	if r.policy.Due(reply.Source) {
		fmt.Fprintln(r.out, ui.HintStyle.Render(feedbackHint))
	}
	fmt.Fprintln(r.out)
	return true
}

func (r *ReadLine) printAnswer(text string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, ui.Rule(ruleWidth))
	fmt.Fprintln(r.out, ui.AnswerLabelStyle.Render("  "+core.AppName))
	fmt.Fprintln(r.out, ui.Rule(ruleWidth))
	fmt.Fprintln(r.out, text)
	fmt.Fprintln(r.out, ui.Rule(ruleWidth))
}

func (r *ReadLine) ask(question string) bool {
	r.rl.SetPrompt(question)
	defer r.rl.SetPrompt(prompt)

	answer, err := r.rl.Readline()
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "yes")
}

func isClear(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	return len(fields) > 0 && fields[0] == "/clear"
}

// feedbackPolicy decides when to ask for feedback: never for answers that
// are already reliable, and only every n-th web answer.
type feedbackPolicy struct {
	every int
	since int
}

func newFeedbackPolicy(every int) *feedbackPolicy {
	if every <= 0 {
		every = 5
	}
	return &feedbackPolicy{every: every}
}

func (p *feedbackPolicy) Due(source core.AnswerSource) bool {
	if source != core.SourceWeb {
		return false
	}
	p.since++
	if p.since < p.every {
		return false
	}
	p.since = 0
	return true
}
