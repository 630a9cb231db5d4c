// Package orchestrator drives one conversation turn end to end: classify,
// plan, execute, evaluate and phrase, with session memory and contradiction
// handling around the loop.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/evaluator"
	"github.com/sahai-labs/sahai-agent/agent/executor"
	"github.com/sahai-labs/sahai-agent/agent/failure"
	memoryx "github.com/sahai-labs/sahai-agent/agent/memory"
	plannerx "github.com/sahai-labs/sahai-agent/agent/planner"
)

type Orchestrator struct {
	sessions  *memoryx.Manager
	planner   *plannerx.Planner
	executor  *executor.Executor
	evaluator *evaluator.Evaluator
	failures  failure.Handler
	responder contract.Responder

	graphRunner compose.Runnable[GraphInput, contract.TurnResult]
}

func New(
	sessions *memoryx.Manager,
	planner *plannerx.Planner,
	exec *executor.Executor,
	eval *evaluator.Evaluator,
	responder contract.Responder,
) (*Orchestrator, error) {
	if sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if exec == nil {
		return nil, errors.New("executor is required")
	}
	if eval == nil {
		eval = evaluator.New()
	}
	if responder == nil {
		responder = NewTemplateResponder()
	}

	o := &Orchestrator{
		sessions:  sessions,
		planner:   planner,
		executor:  exec,
		evaluator: eval,
		failures:  failure.NewHandler(),
		responder: responder,
	}

	graphRunner, err := o.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner
	return o, nil
}

// HandleTurn processes one user utterance. Turns in the same session are
// serialized on the session lock; different sessions run in parallel.
// Internal faults come back as a generic apology, never as a raw error.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (contract.TurnResult, error) {
	sess := o.sessions.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	sess.NextTurnIndex()

	out, err := o.graphRunner.Invoke(ctx, GraphInput{Session: sess, Text: text})
	if err != nil {
		if errors.Is(err, ErrInvalidMessage) || errors.Is(err, ErrInvalidSession) || errors.Is(err, contract.ErrValidation) {
			return contract.TurnResult{}, err
		}
		log.Error().Err(err).Str("session", sess.ID).Msg("turn failed")
		reply := o.failures.InternalFaultMessage()
		sess.RecordTurn("user", text)
		sess.RecordTurn("assistant", reply)
		return contract.TurnResult{
			SessionID: sess.ID,
			Response:  reply,
			Verdict:   contract.VerdictEscalate,
		}, nil
	}
	return out, nil
}

// Dump returns a read-only snapshot of one session for inspection.
func (o *Orchestrator) Dump(sessionID string) (memoryx.Dump, error) {
	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return memoryx.Dump{}, fmt.Errorf("dump session: %w", err)
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Snapshot(), nil
}
