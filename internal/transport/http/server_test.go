package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
)

type fakeDialogue struct {
	handled  []string
	reset    []string
	resetErr error
}

func (d *fakeDialogue) Handle(_ context.Context, sessionID, text string) core.Reply {
	d.handled = append(d.handled, sessionID+":"+text)
	return core.Reply{Text: "Paris", Source: core.SourceWeb, Query: text}
}

func (d *fakeDialogue) Greeting(context.Context) string { return "Hi there" }

func (d *fakeDialogue) Reset(_ context.Context, sessionID string) error {
	d.reset = append(d.reset, sessionID)
	return d.resetErr
}

type fakeRouter struct{}

func (fakeRouter) Execute(_ context.Context, sessionID, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}
	return "ran " + input + " for " + sessionID, true
}

func (fakeRouter) ListCommands() []core.Command { return nil }

type fakeStats struct {
	err error
}

func (f fakeStats) Snapshot(context.Context, string) (core.Snapshot, error) {
	return core.Snapshot{Index: core.IndexStats{TotalEmbeddings: 3}}, f.err
}

func newTestServer(d *fakeDialogue, stats fakeStats) *Server {
	cfg := &config.HTTPConfig{MaxMessageBytes: 64}
	return NewServer(cfg, d, fakeRouter{}, stats)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	rec := do(t, newTestServer(&fakeDialogue{}, fakeStats{}), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"`+core.AppVersion+`"}`, rec.Body.String())
}

func TestServer_NewSession(t *testing.T) {
	rec := do(t, newTestServer(&fakeDialogue{}, fakeStats{}), http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.SessionID, 36)
	assert.Equal(t, "Hi there", resp.Greeting)
}

func TestServer_Message(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantText   string
		command    bool
		handled    []string
	}{
		{
			name:       "question goes to dialogue",
			body:       `{"text":"capital of France?"}`,
			wantStatus: http.StatusOK,
			wantText:   "Paris",
			handled:    []string{"s1:capital of France?"},
		},
		{
			name:       "slash command goes to router",
			body:       `{"text":"/stats"}`,
			wantStatus: http.StatusOK,
			wantText:   "ran /stats for s1",
			command:    true,
		},
		{name: "blank text", body: `{"text":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "invalid json", body: `{"text":`, wantStatus: http.StatusBadRequest},
		{
			name:       "body too large",
			body:       `{"text":"` + strings.Repeat("x", 100) + `"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDialogue{}
			rec := do(t, newTestServer(d, fakeStats{}), http.MethodPost, "/v1/sessions/s1/messages", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.handled, d.handled)
			if tt.wantStatus != http.StatusOK {
				var resp errorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error)
				assert.NotEmpty(t, resp.RequestID)
				return
			}

			var resp messageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "s1", resp.SessionID)
			assert.Equal(t, tt.wantText, resp.Text)
			assert.Equal(t, tt.command, resp.Command)
		})
	}
}

func TestServer_Stats(t *testing.T) {
	rec := do(t, newTestServer(&fakeDialogue{}, fakeStats{}), http.MethodGet, "/v1/sessions/s1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snap core.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 3, snap.Index.TotalEmbeddings)

	rec = do(t, newTestServer(&fakeDialogue{}, fakeStats{err: errors.New("db closed")}), http.MethodGet, "/v1/sessions/s1/stats", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_Reset(t *testing.T) {
	d := &fakeDialogue{}
	rec := do(t, newTestServer(d, fakeStats{}), http.MethodDelete, "/v1/sessions/s1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"s1"}, d.reset)

	d = &fakeDialogue{resetErr: errors.New("locked")}
	rec = do(t, newTestServer(d, fakeStats{}), http.MethodDelete, "/v1/sessions/s1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, newTestServer(&fakeDialogue{}, fakeStats{}).Shutdown(context.Background()))
}
