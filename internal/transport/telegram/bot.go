package telegram

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/conv"
	"github.com/sandevgo/musage/pkg/log"
)

const baseContextKey = "base_context"

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	dialogue core.Dialogue
	router   core.CmdRouter
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	dialogue core.Dialogue,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		dialogue: dialogue,
		router:   router,
		ownerID:  cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the bot.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func sessionID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return b.sender.sendHTML(ctx, c.Chat(), html.EscapeString(b.dialogue.Greeting(ctx)))
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	ctx = log.WithComponent(ctx, "telegram")

	_ = c.Notify(tele.Typing)

	out := b.respond(ctx, sessionID(c.Chat().ID), c.Text())
	if err := b.sender.sendHTML(ctx, c.Chat(), out); err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to send telegram reply")
		return err
	}
	return nil
}

// respond runs text through the command router or the dialogue and returns
// Telegram HTML. Command output is markdown; dialogue answers are plain text.
func (b *Bot) respond(ctx context.Context, session, text string) string {
	if out, ok := b.router.Execute(ctx, session, text); ok {
		return strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(out)))
	}

	reply := b.dialogue.Handle(ctx, session, text)
	log.FromCtx(ctx).Debug().Str("source", string(reply.Source)).Msg("telegram reply ready")
	return html.EscapeString(reply.Text)
}
