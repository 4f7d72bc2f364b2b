package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	SessionID string `json:"session_id"`
	core.Reply
	// Command is set when the text was a slash command rather than a
	// question.
	Command bool `json:"command,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": core.AppVersion})
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: uuid.NewString(),
		Greeting:  s.dialogue.Greeting(r.Context()),
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := chi.URLParam(r, "id")

	var req messageRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxMessageBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "message too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, r, http.StatusBadRequest, "text is required")
		return
	}

	if out, ok := s.router.Execute(ctx, sid, text); ok {
		writeJSON(w, http.StatusOK, messageResponse{
			SessionID: sid,
			Reply:     core.Reply{Text: out},
			Command:   true,
		})
		return
	}

	reply := s.dialogue.Handle(ctx, sid, text)
	log.FromCtx(ctx).Debug().Str("session", sid).Str("source", string(reply.Source)).Msg("message answered")
	writeJSON(w, http.StatusOK, messageResponse{SessionID: sid, Reply: reply})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.stats.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to build stats")
		writeError(w, r, http.StatusInternalServerError, "failed to build stats")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.dialogue.Reset(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to reset session")
		writeError(w, r, http.StatusInternalServerError, "failed to reset session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, RequestID: middleware.GetReqID(r.Context())})
}
