package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/internal/providers/instant"
)

const (
	session = "s1"

	mlSource = "Machine learning is a subset of AI focused on building systems which learn from data. " +
		"Modern machine learning models use statistical techniques to improve performance on a task with experience. " +
		"Popular applications of machine learning include spam filtering, recommendation engines and image recognition."
)

type fakeHistory struct {
	mu    sync.Mutex
	turns map[string][]core.Turn
}

func (h *fakeHistory) Append(_ context.Context, sessionID string, role core.Role, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.turns == nil {
		h.turns = make(map[string][]core.Turn)
	}
	h.turns[sessionID] = append(h.turns[sessionID], core.Turn{SessionID: sessionID, Role: role, Content: content})
	return nil
}

func (h *fakeHistory) Recent(_ context.Context, sessionID string, n int) ([]core.Turn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	turns := h.turns[sessionID]
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return turns, nil
}

func (h *fakeHistory) Context(ctx context.Context, sessionID string, n int) (string, error) {
	turns, _ := h.Recent(ctx, sessionID, n)
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		role := "User"
		if t.Role == core.RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, role+": "+t.Content)
	}
	return strings.Join(lines, "\n"), nil
}

type fakeStates struct {
	data map[string][]byte
}

func (s *fakeStates) LoadState(_ context.Context, sessionID string) ([]byte, error) {
	return s.data[sessionID], nil
}

func (s *fakeStates) SaveState(_ context.Context, sessionID string, state []byte) error {
	s.data[sessionID] = state
	return nil
}

func (s *fakeStates) DeleteState(_ context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

type fakeRetriever struct {
	offline  bool
	results  []core.SearchResult
	chunks   []core.SourceChunk
	searches []string
	fetched  []string
}

func (r *fakeRetriever) Search(_ context.Context, query string) ([]core.SearchResult, error) {
	r.searches = append(r.searches, query)
	if len(r.results) == 0 {
		return nil, errors.New("no results")
	}
	return r.results, nil
}

func (r *fakeRetriever) Fetch(_ context.Context, urls []string) ([]core.SourceChunk, error) {
	r.fetched = append(r.fetched, urls...)
	return r.chunks, nil
}

func (r *fakeRetriever) Online(context.Context) bool { return !r.offline }

type fakeCache struct {
	hits    []core.CacheHit
	lookups []string
}

func (c *fakeCache) Lookup(_ context.Context, query string, _ int) ([]core.CacheHit, error) {
	c.lookups = append(c.lookups, query)
	return c.hits, nil
}

func (c *fakeCache) Index(context.Context, string, map[string]string) error { return nil }

type fakeKnowledge struct {
	recorded []core.SourceChunk
}

func (k *fakeKnowledge) Record(_ context.Context, _ string, chunk core.SourceChunk) error {
	k.recorded = append(k.recorded, chunk)
	return nil
}

type fakeStats struct {
	snap core.Snapshot
}

func (s fakeStats) Snapshot(context.Context, string) (core.Snapshot, error) { return s.snap, nil }

type fakeMemory struct {
	cleared []string
}

func (m *fakeMemory) Clear(_ context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return nil
}

type usageCall struct {
	method  string
	success bool
}

type fakeUsage struct {
	calls []usageCall
}

func (u *fakeUsage) LogQuery(_ context.Context, _, _ string, method string, success bool) error {
	u.calls = append(u.calls, usageCall{method: method, success: success})
	return nil
}

type harness struct {
	orch      *Orchestrator
	history   *fakeHistory
	states    *fakeStates
	retriever *fakeRetriever
	cache     *fakeCache
	knowledge *fakeKnowledge
	memory    *fakeMemory
	usage     *fakeUsage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		history: &fakeHistory{},
		states:  &fakeStates{data: make(map[string][]byte)},
		retriever: &fakeRetriever{
			results: []core.SearchResult{
				{Title: "ML", URL: "https://example.org/ml", Snippet: "Machine learning snippet."},
				{Title: "ML 2", URL: "https://example.org/ml2"},
				{Title: "ML 3", URL: "https://example.org/ml3"},
				{Title: "ML 4", URL: "https://example.org/ml4"},
			},
			chunks: []core.SourceChunk{{Content: mlSource, Title: "ML", URL: "https://example.org/ml"}},
		},
		cache:     &fakeCache{},
		knowledge: &fakeKnowledge{},
		memory:    &fakeMemory{},
		usage:     &fakeUsage{},
	}
	h.orch = NewOrchestrator(DefaultConfig(), Deps{
		Retriever: h.retriever,
		Cache:     h.cache,
		Knowledge: h.knowledge,
		History:   h.history,
		Stats: fakeStats{snap: core.Snapshot{
			Knowledge:    core.KnowledgeStats{TotalEntries: 4, AvgUsefulness: 0.5},
			Index:        core.IndexStats{TotalEmbeddings: 9, Engine: "hash"},
			Conversation: core.ConversationStats{TotalMessages: 2},
		}},
		Memory:  h.memory,
		States:  h.states,
		Usage:   h.usage,
		Instant: []core.InstantAnswerer{instant.NewLocal()},
	})
	h.orch.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func (h *harness) state(t *testing.T) State {
	t.Helper()
	s, err := UnmarshalState(h.states.data[session])
	require.NoError(t, err)
	return s
}

func (h *harness) setState(t *testing.T, s State) {
	t.Helper()
	data, err := s.Marshal()
	require.NoError(t, err)
	h.states.data[session] = data
}

func (h *harness) say(text string) core.Reply {
	return h.orch.Handle(context.Background(), session, text)
}

func confirmation(q string) string {
	return fmt.Sprintf(confirmReply, q)
}

func TestHandle_LocalAnswerSkipsRetrieval(t *testing.T) {
	h := newHarness(t)
	h.setState(t, State{LastTopic: "Python"})

	reply := h.say("5 + 3")

	assert.Contains(t, reply.Text, "8")
	assert.Equal(t, core.SourceLocal, reply.Source)
	assert.Empty(t, h.retriever.searches)
	assert.Equal(t, "Python", h.state(t).LastTopic)
	assert.Equal(t, []usageCall{{method: "local", success: true}}, h.usage.calls)
}

func TestHandle_ClarificationGivesUpAfterTwoNudges(t *testing.T) {
	h := newHarness(t)

	reply := h.say("I need help")
	assert.Equal(t, ClarifyingQuestion("I need help"), reply.Text)
	assert.Equal(t, "help", h.state(t).PendingTopic)

	reply = h.say("ok")
	assert.Equal(t, "What specifically about help would you like to know?", reply.Text)
	assert.Equal(t, 2, h.state(t).ClarifyCount)

	reply = h.say("ok")
	assert.Equal(t, giveUpReply, reply.Text)
	assert.Equal(t, State{}, h.state(t))
	assert.Empty(t, h.retriever.searches)
}

func TestHandle_ClarificationMergesTopic(t *testing.T) {
	h := newHarness(t)

	h.say("I need help")
	reply := h.say("derivatives")

	assert.Equal(t, confirmation("derivatives help"), reply.Text)
	st := h.state(t)
	require.NotNil(t, st.PendingSearch)
	assert.Equal(t, "derivatives help", st.PendingSearch.Query)
	assert.Empty(t, st.PendingTopic)
}

func TestHandle_ClarificationFarewellSettles(t *testing.T) {
	h := newHarness(t)

	h.say("I need help")
	reply := h.say("bye")

	assert.Equal(t, NewClassifier(nil).Response(core.CategoryFarewell), reply.Text)
	assert.False(t, h.state(t).AwaitingClarification())
}

func TestHandle_ConfirmedSearch(t *testing.T) {
	h := newHarness(t)

	reply := h.say("what is machine learning?")
	assert.Equal(t, confirmation("what is machine learning?"), reply.Text)
	assert.Equal(t, core.SourceConversational, reply.Source)
	assert.Empty(t, h.retriever.searches)
	assert.Empty(t, h.state(t).LastTopic)

	reply = h.say("yes")
	require.Equal(t, core.SourceWeb, reply.Source)
	assert.True(t, strings.HasPrefix(reply.Text, "Machine learning is a subset of AI"), reply.Text)
	assert.Equal(t, []string{"what is machine learning?"}, h.retriever.searches)
	assert.Len(t, h.retriever.fetched, 3)
	assert.Len(t, h.knowledge.recorded, 1)

	st := h.state(t)
	assert.Equal(t, "machine learning", st.LastTopic)
	assert.False(t, st.AwaitingConfirmation())
	assert.Equal(t, []usageCall{{method: "web", success: true}}, h.usage.calls)
}

func TestHandle_PronounFollowUp(t *testing.T) {
	h := newHarness(t)
	h.setState(t, State{LastTopic: "Python"})

	reply := h.say("what are its frameworks?")

	assert.Equal(t, confirmation("what are Python's frameworks?"), reply.Text)
	st := h.state(t)
	require.NotNil(t, st.PendingSearch)
	assert.Equal(t, "what are Python's frameworks?", st.PendingSearch.Query)
}

func TestHandle_ConfirmationRoundTrip(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		h.say("what is rust?")

		reply := h.say("no")

		assert.Equal(t, declinedReply, reply.Text)
		assert.Empty(t, h.retriever.searches)
		assert.Equal(t, State{}, h.state(t))
	})

	t.Run("new query replaces held search", func(t *testing.T) {
		h := newHarness(t)
		h.say("what is rust?")

		reply := h.say("what is zig?")

		assert.Equal(t, confirmation("what is zig?"), reply.Text)
		assert.Equal(t, "what is zig?", h.state(t).PendingSearch.Query)
		assert.Empty(t, h.retriever.searches)
	})

	t.Run("offline", func(t *testing.T) {
		h := newHarness(t)
		h.retriever.offline = true
		h.say("what is rust?")

		reply := h.say("yes")

		assert.Equal(t, offlineReply, reply.Text)
		assert.Empty(t, h.retriever.searches)
		assert.False(t, h.state(t).AwaitingConfirmation())
	})

	t.Run("no results", func(t *testing.T) {
		h := newHarness(t)
		h.retriever.results = nil
		h.say("what is rust?")

		reply := h.say("sure")

		assert.Equal(t, searchFailedReply, reply.Text)
		assert.Equal(t, []usageCall{{method: "web", success: false}}, h.usage.calls)
		assert.Empty(t, h.state(t).LastTopic)
	})
}

func TestHandle_CacheHit(t *testing.T) {
	h := newHarness(t)
	h.cache.hits = []core.CacheHit{{Content: mlSource, Similarity: 0.8}}

	reply := h.say("what is machine learning?")

	assert.Equal(t, core.SourceMemory, reply.Source)
	assert.True(t, strings.HasPrefix(reply.Text, "Machine learning is a subset of AI"), reply.Text)
	assert.Empty(t, h.retriever.searches)
	assert.Equal(t, "machine learning", h.state(t).LastTopic)
}

func TestHandle_Stats(t *testing.T) {
	h := newHarness(t)
	h.say("what is rust?")

	reply := h.say("stats")

	assert.Equal(t, core.SourceConversational, reply.Source)
	assert.Contains(t, reply.Text, "Entries    : 4")
	assert.Contains(t, reply.Text, "Engine     : hash")
	assert.False(t, h.state(t).AwaitingConfirmation())
}

func TestHandle_Conversational(t *testing.T) {
	h := newHarness(t)

	reply := h.say("hello")

	assert.Equal(t, NewClassifier(nil).Response(core.CategoryGreeting), reply.Text)
	assert.Empty(t, h.cache.lookups)
}

func TestHandle_RecordsTurns(t *testing.T) {
	h := newHarness(t)

	h.say("5 + 3")

	turns := h.history.turns[session]
	require.Len(t, turns, 2)
	assert.Equal(t, core.RoleUser, turns[0].Role)
	assert.Equal(t, "5 + 3", turns[0].Content)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
}

func TestHandle_DiscardsCorruptState(t *testing.T) {
	h := newHarness(t)
	h.states.data[session] = []byte(`{"pending_topic":"x","pending_search":{"query":"y"}}`)

	reply := h.say("5 + 3")

	assert.Equal(t, core.SourceLocal, reply.Source)
	assert.Equal(t, State{}, h.state(t))
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	h.setState(t, State{LastTopic: "Python"})

	require.NoError(t, h.orch.Reset(context.Background(), session))

	assert.Equal(t, []string{session}, h.memory.cleared)
	_, ok := h.states.data[session]
	assert.False(t, ok)

	// Pronouns no longer resolve against the wiped topic.
	reply := h.say("what are its frameworks?")
	assert.Equal(t, confirmation("what are its frameworks?"), reply.Text)
}

func TestEffectiveQuery(t *testing.T) {
	tests := []struct {
		reply string
		topic string
		want  string
	}{
		{"derivatives", "help", "derivatives help"},
		{"how do I integrate by parts?", "calculus", "how do I integrate by parts?"},
		{"the calculus homework", "calculus", "calculus homework"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EffectiveQuery(tt.reply, tt.topic), tt.reply)
	}
}

func TestOrchestrator_Greeting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.Equal(t, greeting, h.orch.Greeting(ctx))

	h.retriever.offline = true
	assert.Equal(t, offlineGreeting, h.orch.Greeting(ctx))
}
