package dialogue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandevgo/musage/internal/core"
)

var ErrInvalidState = errors.New("invalid dialogue state")

// PendingSearch is a web search held until the user confirms it.
type PendingSearch struct {
	Query  string      `json:"query"`
	Intent core.Intent `json:"intent"`
}

// State is the per-session dialogue memory. At most one of PendingTopic and
// PendingSearch is set. Transitions return a new value and leave the
// receiver untouched.
type State struct {
	PendingTopic  string         `json:"pending_topic,omitempty"`
	ClarifyCount  int            `json:"clarify_count,omitempty"`
	PendingSearch *PendingSearch `json:"pending_search,omitempty"`
	LastTopic     string         `json:"last_topic,omitempty"`
}

func (s State) AwaitingClarification() bool { return s.PendingTopic != "" }

func (s State) AwaitingConfirmation() bool { return s.PendingSearch != nil }

// AwaitClarification enters the clarification mode for topic.
func (s State) AwaitClarification(topic string) State {
	s.PendingSearch = nil
	s.PendingTopic = topic
	s.ClarifyCount = 1
	return s
}

// Nudge counts one more clarification prompt for the pending topic.
func (s State) Nudge() State {
	s.ClarifyCount++
	return s
}

// AwaitConfirmation holds a search until the user confirms it.
func (s State) AwaitConfirmation(query string, intent core.Intent) State {
	s.PendingTopic = ""
	s.ClarifyCount = 0
	s.PendingSearch = &PendingSearch{Query: query, Intent: intent}
	return s
}

// Settle leaves any awaiting-input mode.
func (s State) Settle() State {
	s.PendingTopic = ""
	s.ClarifyCount = 0
	s.PendingSearch = nil
	return s
}

// Answered records the subject of a terminal answer. An empty subject keeps
// the previous topic.
func (s State) Answered(subject string) State {
	if subject != "" {
		s.LastTopic = subject
	}
	return s
}

func (s State) Validate() error {
	if s.PendingTopic != "" && s.PendingSearch != nil {
		return fmt.Errorf("%w: both clarification and confirmation pending", ErrInvalidState)
	}
	if s.ClarifyCount < 0 {
		return fmt.Errorf("%w: negative clarification count", ErrInvalidState)
	}
	return nil
}

func (s State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func UnmarshalState(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("failed to decode dialogue state: %w", err)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}
