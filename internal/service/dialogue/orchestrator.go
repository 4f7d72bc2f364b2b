// Package dialogue decides, turn by turn, whether to answer instantly, ask
// for clarification, ask before searching, or synthesize an answer.
package dialogue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/service/synth"
	"github.com/sandevgo/musage/pkg/log"
)

const (
	greeting        = "Hello! I'm " + core.AppName + ".\nAsk me anything to get started!"
	offlineGreeting = "Hello! I'm " + core.AppName + ". I can't reach the internet right now,\n" +
		"but I can still do calculations, conversions and answer what I've learned."

	offlineReply = "I'm not able to reach the internet right now.\n" +
		"Please check your connection and try again."
	searchFailedReply = "The web search didn't return results right now.\n" +
		"Please check your connection or try again in a moment."
	declinedReply = "No problem! Feel free to rephrase or ask me something else."
	giveUpReply   = "No problem! Feel free to ask me anything whenever you're ready."
	nudgeReply    = "What specifically about %s would you like to know?"
	confirmReply  = "Would you like me to search for: \"%s\"?"

	previewRunes = 80
)

var statsCommands = map[string]bool{"stats": true, "statistics": true, "info": true}

type Config struct {
	// ContextTurns is how many recent turns feed the follow-up anchor.
	ContextTurns int
	CacheResults int
	FetchLimit   int
}

func DefaultConfig() Config {
	return Config{ContextTurns: 6, CacheResults: 3, FetchLimit: 3}
}

// Deps are the collaborators of the Orchestrator. Usage may be nil.
type Deps struct {
	Classifier *Classifier
	Synth      *synth.Synthesizer
	Retriever  core.Retriever
	Cache      core.SemanticCache
	Knowledge  core.KnowledgeRecorder
	History    core.ConversationLog
	Stats      core.StatsProvider
	Memory     core.MemoryResetter
	States     core.StateRepository
	Usage      core.UsageLogger
	// Instant providers in priority order. Unavailable ones must already be
	// filtered out.
	Instant []core.InstantAnswerer
}

type Orchestrator struct {
	cfg   Config
	deps  Deps
	now   func() time.Time
	locks sync.Map
}

func NewOrchestrator(cfg Config, deps Deps) *Orchestrator {
	if deps.Classifier == nil {
		deps.Classifier = NewClassifier(nil)
	}
	if deps.Synth == nil {
		deps.Synth = synth.New(synth.DefaultConfig())
	}
	return &Orchestrator{cfg: cfg, deps: deps, now: time.Now}
}

func (o *Orchestrator) lock(sessionID string) func() {
	v, _ := o.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (o *Orchestrator) Greeting(ctx context.Context) string {
	if o.deps.Retriever != nil && !o.deps.Retriever.Online(ctx) {
		return offlineGreeting
	}
	return greeting
}

// Handle processes one user turn. Turns of one session are serialised;
// collaborator failures degrade to a reply and are never returned.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, text string) core.Reply {
	defer o.lock(sessionID)()
	logger := log.FromCtx(ctx)

	state := o.loadState(ctx, sessionID)

	if err := o.deps.History.Append(ctx, sessionID, core.RoleUser, text); err != nil {
		logger.Error().Err(err).Msg("failed to save user turn")
	}
	conversation, err := o.deps.History.Context(ctx, sessionID, o.cfg.ContextTurns)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to build conversation context")
	}

	t := &turn{sessionID: sessionID, conversation: conversation, state: state}
	reply := o.step(ctx, t, text)

	if err := o.saveState(ctx, sessionID, t.state); err != nil {
		logger.Error().Err(err).Msg("failed to save dialogue state")
	}
	if err := o.deps.History.Append(ctx, sessionID, core.RoleAssistant, reply.Text); err != nil {
		logger.Error().Err(err).Msg("failed to save assistant turn")
	}

	logger.Debug().
		Str("session", sessionID).
		Str("source", string(reply.Source)).
		Str("last_topic", t.state.LastTopic).
		Msg("turn handled")
	return reply
}

// Reset wipes the session's memory and dialogue state, including the last
// topic.
func (o *Orchestrator) Reset(ctx context.Context, sessionID string) error {
	defer o.lock(sessionID)()

	if o.deps.Memory != nil {
		if err := o.deps.Memory.Clear(ctx, sessionID); err != nil {
			return fmt.Errorf("failed to clear memory: %w", err)
		}
	}
	if err := o.deps.States.DeleteState(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete dialogue state: %w", err)
	}
	return nil
}

type turn struct {
	sessionID    string
	conversation string
	state        State
}

func (o *Orchestrator) step(ctx context.Context, t *turn, text string) core.Reply {
	c := o.deps.Classifier
	q := strings.TrimSpace(Resolve(text, t.state.LastTopic))

	if statsCommands[strings.ToLower(q)] {
		t.state = t.state.Settle()
		return o.stats(ctx, t.sessionID)
	}

	if t.state.AwaitingConfirmation() {
		held := *t.state.PendingSearch
		t.state = t.state.Settle()
		if c.Affirmative(q) {
			return o.search(ctx, t, held.Query, held.Intent)
		}
		if c.Negative(q) {
			return conversational(declinedReply)
		}
		// Anything else drops the held search and is handled as a new query.
	}

	if t.state.AwaitingClarification() {
		return o.clarificationReply(ctx, t, q)
	}

	if cat, ok := c.Conversational(q); ok {
		return conversational(c.Response(cat))
	}

	if reply, ok := o.instant(ctx, t, q, false); ok {
		return reply
	}

	if IsVagueTask(q) {
		t.state = t.state.AwaitClarification(pendingTopicFor(q))
		return conversational(ClarifyingQuestion(q))
	}

	intent := c.Intent(q)
	if reply, ok := o.fromCache(ctx, t, q); ok {
		return reply
	}
	return o.confirm(t, q, intent)
}

func (o *Orchestrator) clarificationReply(ctx context.Context, t *turn, q string) core.Reply {
	c := o.deps.Classifier
	cat, isConv := c.Conversational(q)

	if isConv && (cat == core.CategoryFarewell || cat == core.CategoryThanks) {
		t.state = t.state.Settle()
		return conversational(c.Response(cat))
	}

	if (isConv && (cat == core.CategoryAck || cat == core.CategoryGreeting)) || c.IsAck(q) {
		if t.state.ClarifyCount < 2 {
			t.state = t.state.Nudge()
			return conversational(fmt.Sprintf(nudgeReply, t.state.PendingTopic))
		}
		t.state = t.state.Settle()
		return conversational(giveUpReply)
	}

	topic := t.state.PendingTopic
	t.state = t.state.Settle()

	if reply, ok := o.instant(ctx, t, q, true); ok {
		return reply
	}

	effective := EffectiveQuery(q, topic)
	if reply, ok := o.fromCache(ctx, t, effective); ok {
		return reply
	}
	return o.confirm(t, effective, c.Intent(effective))
}

// EffectiveQuery combines a clarification reply with the pending topic.
// Explicit replies stand alone; short ones are prefixed to the topic unless
// one already contains the other.
func EffectiveQuery(reply, topic string) string {
	q := strings.TrimSpace(reply)
	if strings.Contains(q, "?") || questionRe.MatchString(q) || len(strings.Fields(q)) > 3 {
		return q
	}

	noun := TopicNoun(q)
	ln, lt := strings.ToLower(noun), strings.ToLower(topic)
	if noun != "" && !strings.Contains(ln, lt) && !strings.Contains(lt, ln) {
		return strings.TrimSpace(noun + " " + topic)
	}
	if noun != "" {
		return noun
	}
	return q
}

// instant asks the instant-answer providers in priority order. With
// localOnly only providers tagged as local are consulted.
func (o *Orchestrator) instant(ctx context.Context, t *turn, q string, localOnly bool) (core.Reply, bool) {
	for _, p := range o.deps.Instant {
		if localOnly && p.Source() != core.SourceLocal {
			continue
		}
		answer, ok := p.TryAnswer(ctx, q)
		if !ok {
			continue
		}
		log.FromCtx(ctx).Debug().Str("provider", p.Name()).Msg("instant answer")
		if p.Source() != core.SourceLocal {
			t.state = t.state.Answered(ExtractSubject(q))
		}
		o.logUsage(ctx, q, answer, p.Name(), true)
		return core.Reply{Text: answer, Source: p.Source(), Query: q}, true
	}
	return core.Reply{}, false
}

func (o *Orchestrator) fromCache(ctx context.Context, t *turn, q string) (core.Reply, bool) {
	if o.deps.Cache == nil {
		return core.Reply{}, false
	}
	hits, err := o.deps.Cache.Lookup(ctx, q, o.cfg.CacheResults)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("semantic cache lookup failed")
		return core.Reply{}, false
	}
	answer, ok := o.deps.Synth.FromCache(ctx, q, hits)
	if !ok {
		return core.Reply{}, false
	}
	t.state = t.state.Answered(ExtractSubject(q))
	o.logUsage(ctx, q, answer, string(core.SourceMemory), true)
	return core.Reply{Text: answer, Source: core.SourceMemory, Query: q}, true
}

func (o *Orchestrator) confirm(t *turn, q string, intent core.Intent) core.Reply {
	t.state = t.state.AwaitConfirmation(q, intent)
	preview := q
	if r := []rune(q); len(r) > previewRunes {
		preview = string(r[:previewRunes]) + "..."
	}
	return conversational(fmt.Sprintf(confirmReply, preview))
}

// search runs a confirmed web search and synthesizes the answer.
func (o *Orchestrator) search(ctx context.Context, t *turn, query string, intent core.Intent) core.Reply {
	logger := log.FromCtx(ctx)

	if o.deps.Retriever == nil || !o.deps.Retriever.Online(ctx) {
		return conversational(offlineReply)
	}

	refined := RefineQuery(query, intent, t.conversation, o.now())
	logger.Info().Str("query", refined).Str("intent", string(intent)).Msg("searching the web")

	results, err := o.deps.Retriever.Search(ctx, refined)
	if err != nil {
		logger.Warn().Err(err).Msg("web search failed")
	}
	if len(results) == 0 {
		o.logUsage(ctx, query, "", string(core.SourceWeb), false)
		return conversational(searchFailedReply)
	}

	urls := make([]string, 0, o.cfg.FetchLimit)
	for _, r := range results {
		if len(urls) == o.cfg.FetchLimit {
			break
		}
		urls = append(urls, r.URL)
	}

	chunks, err := o.deps.Retriever.Fetch(ctx, urls)
	if err != nil {
		logger.Warn().Err(err).Msg("page fetch failed")
	}
	if len(chunks) == 0 {
		for _, r := range results {
			chunks = append(chunks, core.SourceChunk{Content: r.Snippet, Title: r.Title, URL: r.URL})
		}
	}

	if o.deps.Knowledge != nil {
		for _, chunk := range chunks {
			if strings.TrimSpace(chunk.Content) == "" {
				continue
			}
			if err := o.deps.Knowledge.Record(ctx, query, chunk); err != nil {
				logger.Warn().Err(err).Str("url", chunk.URL).Msg("failed to record knowledge")
			}
		}
	}

	answer := o.deps.Synth.FromSources(ctx, query, chunks, intent)
	t.state = t.state.Answered(ExtractSubject(query))
	o.logUsage(ctx, query, answer, string(core.SourceWeb), true)
	return core.Reply{Text: answer, Source: core.SourceWeb, Query: query}
}

func (o *Orchestrator) stats(ctx context.Context, sessionID string) core.Reply {
	if o.deps.Stats == nil {
		return conversational(FormatStats(core.Snapshot{}))
	}
	snap, err := o.deps.Stats.Snapshot(ctx, sessionID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to collect statistics")
	}
	return conversational(FormatStats(snap))
}

func (o *Orchestrator) logUsage(ctx context.Context, query, answer, method string, success bool) {
	if o.deps.Usage == nil {
		return
	}
	if err := o.deps.Usage.LogQuery(ctx, query, answer, method, success); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to log usage")
	}
}

func (o *Orchestrator) loadState(ctx context.Context, sessionID string) State {
	data, err := o.deps.States.LoadState(ctx, sessionID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to load dialogue state")
		return State{}
	}
	state, err := UnmarshalState(data)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("discarding stored dialogue state")
		return State{}
	}
	return state
}

func (o *Orchestrator) saveState(ctx context.Context, sessionID string, state State) error {
	data, err := state.Marshal()
	if err != nil {
		return err
	}
	return o.deps.States.SaveState(ctx, sessionID, data)
}

func conversational(text string) core.Reply {
	return core.Reply{Text: text, Source: core.SourceConversational}
}
