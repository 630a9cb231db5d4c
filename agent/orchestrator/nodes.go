package orchestrator

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	conflictx "github.com/sahai-labs/sahai-agent/agent/conflict"
	"github.com/sahai-labs/sahai-agent/agent/contract"
	memoryx "github.com/sahai-labs/sahai-agent/agent/memory"
	toolx "github.com/sahai-labs/sahai-agent/agent/tool"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session is nil")
)

// TurnState is where the turn currently is in its lifecycle. Transitions
// are linear except for the executing/evaluating cycle and the jump to
// errored.
type TurnState string

const (
	StateIdle       TurnState = "idle"
	StateReceiving  TurnState = "receiving"
	StatePlanning   TurnState = "planning"
	StateExecuting  TurnState = "executing"
	StateEvaluating TurnState = "evaluating"
	StateResponding TurnState = "generating_response"
	StateComplete   TurnState = "complete"
	StateErrored    TurnState = "error"
)

// GraphInput enters the turn graph. The caller holds the session's lock for
// the whole graph run.
type GraphInput struct {
	Session *memoryx.Session
	Text    string
}

// GraphState threads one turn through the graph nodes.
type GraphState struct {
	Session *memoryx.Session
	Text    string

	State       TurnState
	Transitions []TurnState

	// Resolution is set when the utterance answers a pending
	// contradiction question.
	Resolution *resolutionChoice

	Plan          contract.Plan
	LowConfidence bool
	Report        contract.ExecutionReport
	Evaluation    contract.Evaluation
	Attempts      int

	Reply string
}

func (st *GraphState) advance(to TurnState) {
	log.Debug().
		Str("session", st.Session.ID).
		Str("from", string(st.State)).
		Str("to", string(to)).
		Msg("turn state transition")
	st.State = to
	st.Transitions = append(st.Transitions, to)
}

type resolutionChoice struct {
	Field       contract.FieldName
	UseIncoming bool
}

func validateTurn(in GraphInput) (*GraphState, error) {
	if in.Session == nil {
		return nil, ErrInvalidSession
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	st := &GraphState{
		Session:     in.Session,
		Text:        text,
		State:       StateIdle,
		Transitions: []TurnState{StateIdle},
	}
	st.advance(StateReceiving)
	st.Resolution = parseResolution(text, in.Session.Facts.PendingConflicts())
	return st, nil
}

// oldSideWords and newSideWords are how users pick a side when asked which
// of two contradictory values is right.
var (
	oldSideWords = []string{"पहले वाली", "पहले वाला", "पुरानी", "पुराना", "पहली", "pehle wali", "pehle wala", "purani"}
	newSideWords = []string{"नई वाली", "नया वाला", "नई", "नया", "अभी वाली", "अभी वाला", "दूसरी", "nayi", "naya", "abhi wali"}
)

// parseResolution decides whether text answers the oldest pending
// contradiction. It matches side words first, then a literal restatement of
// either value.
func parseResolution(text string, pending []memoryx.PendingConflict) *resolutionChoice {
	if len(pending) == 0 {
		return nil
	}
	c := pending[0].Conflict
	t := strings.ToLower(text)

	for _, w := range oldSideWords {
		if strings.Contains(t, w) {
			return &resolutionChoice{Field: c.Field, UseIncoming: false}
		}
	}
	for _, w := range newSideWords {
		if strings.Contains(t, w) {
			return &resolutionChoice{Field: c.Field, UseIncoming: true}
		}
	}

	// A restatement of one of the two values also settles it, whether said
	// bare ("65") or in a sentence ("65 साल सही है").
	det := conflictx.NewDetector()
	candidates := []any{}
	if norm, err := conflictx.Normalize(c.Field, text); err == nil {
		candidates = append(candidates, norm)
	}
	for _, cand := range toolx.Extract(text) {
		if cand.Field != c.Field {
			continue
		}
		if norm, err := conflictx.Normalize(c.Field, cand.Value); err == nil {
			candidates = append(candidates, norm)
		}
	}
	for _, v := range candidates {
		if det.Equal(c.Field, v, c.Incoming) {
			return &resolutionChoice{Field: c.Field, UseIncoming: true}
		}
		if det.Equal(c.Field, v, c.Previous) {
			return &resolutionChoice{Field: c.Field, UseIncoming: false}
		}
	}
	return nil
}
