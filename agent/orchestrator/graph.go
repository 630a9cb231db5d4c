package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/planner"
)

// maxExecutePasses bounds the execute/evaluate cycle per turn. The
// evaluator's retry budget normally stops it earlier; this is the hard
// ceiling against a misconfigured evaluator.
const maxExecutePasses = 3

func (o *Orchestrator) compileTurnGraph(ctx context.Context) (compose.Runnable[GraphInput, contract.TurnResult], error) {
	graph := compose.NewGraph[GraphInput, contract.TurnResult]()

	if err := graph.AddLambdaNode("validate_turn",
		compose.InvokableLambda(func(ctx context.Context, in GraphInput) (*GraphState, error) {
			return validateTurn(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_turn: %w", err)
	}

	if err := graph.AddLambdaNode("resolve_conflict",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (*GraphState, error) {
			return o.resolveConflict(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_conflict: %w", err)
	}

	if err := graph.AddLambdaNode("plan_turn",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (*GraphState, error) {
			return o.planTurn(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_turn: %w", err)
	}

	if err := graph.AddLambdaNode("recover_confidence",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (*GraphState, error) {
			return o.recoverConfidence(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node recover_confidence: %w", err)
	}

	if err := graph.AddLambdaNode("run_loop",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (*GraphState, error) {
			return o.runLoop(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node run_loop: %w", err)
	}

	if err := graph.AddLambdaNode("compose_reply",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (*GraphState, error) {
			return o.composeReply(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_reply: %w", err)
	}

	if err := graph.AddLambdaNode("record_turn",
		compose.InvokableLambda(func(ctx context.Context, st *GraphState) (contract.TurnResult, error) {
			return o.recordTurn(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_turn: %w", err)
	}

	resolutionBranch := compose.NewGraphBranch(
		func(ctx context.Context, st *GraphState) (string, error) {
			if st == nil {
				return "", fmt.Errorf("%w: graph state is nil", contract.ErrValidation)
			}
			if st.Resolution != nil {
				return "resolve_conflict", nil
			}
			return "plan_turn", nil
		},
		map[string]bool{
			"resolve_conflict": true,
			"plan_turn":        true,
		},
	)
	if err := graph.AddBranch("validate_turn", resolutionBranch); err != nil {
		return nil, fmt.Errorf("add resolution branch: %w", err)
	}

	confidenceBranch := compose.NewGraphBranch(
		func(ctx context.Context, st *GraphState) (string, error) {
			if st == nil {
				return "", fmt.Errorf("%w: graph state is nil", contract.ErrValidation)
			}
			if st.LowConfidence {
				return "recover_confidence", nil
			}
			return "run_loop", nil
		},
		map[string]bool{
			"recover_confidence": true,
			"run_loop":           true,
		},
	)
	if err := graph.AddBranch("plan_turn", confidenceBranch); err != nil {
		return nil, fmt.Errorf("add confidence branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_turn"},
		{"resolve_conflict", "record_turn"},
		{"recover_confidence", "record_turn"},
		{"run_loop", "compose_reply"},
		{"compose_reply", "record_turn"},
		{"record_turn", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.turn_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile turn graph: %w", err)
	}
	return runner, nil
}

// resolveConflict applies the user's answer to the pending contradiction
// and confirms the outcome back to them.
func (o *Orchestrator) resolveConflict(st *GraphState) (*GraphState, error) {
	st.advance(StateResponding)

	res := st.Resolution
	if err := st.Session.Facts.Resolve(res.Field, res.UseIncoming, st.Session.TurnIndex()); err != nil {
		return nil, fmt.Errorf("resolve conflict: %w", err)
	}
	fact, _ := st.Session.Facts.Get(res.Field)

	st.Evaluation = contract.Evaluation{Verdict: contract.VerdictRespond, Score: 1, Reason: "contradiction resolved"}
	st.Reply = o.failures.ConfirmResolution(res.Field, fact.Value)
	st.Session.ResetLowConfidence()
	return st, nil
}

// planTurn classifies and plans. Low confidence is a flag, not an error;
// the confidence branch routes it to recovery.
func (o *Orchestrator) planTurn(ctx context.Context, st *GraphState) (*GraphState, error) {
	st.advance(StatePlanning)

	plan, err := o.planner.PlanTurn(ctx, st.Text, st.Session.CurrentScheme(), st.Session.TurnIndex())
	if err != nil {
		if errors.Is(err, contract.ErrLowConfidence) {
			st.LowConfidence = true
			return st, nil
		}
		return nil, err
	}
	st.Plan = plan
	if id := planner.ResolvedScheme(plan); id != "" {
		st.Session.SetCurrentScheme(id)
	}
	return st, nil
}

func (o *Orchestrator) recoverConfidence(st *GraphState) (*GraphState, error) {
	st.advance(StateResponding)

	streak := st.Session.LowConfidenceStreak()
	st.Session.BumpLowConfidence()
	st.Evaluation = contract.Evaluation{Verdict: contract.VerdictClarify, Reason: "low classification confidence"}
	st.Reply = o.failures.LowConfidencePrompt(streak)
	return st, nil
}

// runLoop is the bounded execute/evaluate cycle. A re_execute verdict
// re-runs the whole plan against the now-updated fact store; anything else
// ends the loop.
func (o *Orchestrator) runLoop(ctx context.Context, st *GraphState) (*GraphState, error) {
	st.Session.ResetLowConfidence()

	if st.Plan.Empty() {
		// Even a conversational turn cannot answer past an unsettled
		// contradiction; re-ask until the user picks a side.
		if pending := st.Session.Facts.PendingConflicts(); len(pending) > 0 {
			c := pending[0].Conflict
			st.Evaluation = contract.Evaluation{Verdict: contract.VerdictClarify, Reason: "contradiction pending", Conflict: &c}
			return st, nil
		}
		st.Evaluation = contract.Evaluation{Verdict: contract.VerdictRespond, Score: 1, Reason: "conversational turn"}
		return st, nil
	}

	for attempt := 0; attempt < maxExecutePasses; attempt++ {
		st.advance(StateExecuting)
		report, err := o.executor.Run(ctx, st.Plan, st.Session.Facts)
		if err != nil {
			return nil, fmt.Errorf("execute plan: %w", err)
		}
		st.Report = report
		st.Attempts = attempt + 1

		st.advance(StateEvaluating)
		st.Evaluation = o.evaluator.Evaluate(st.Plan, report, st.Session.Facts.Statuses(), attempt)
		if st.Evaluation.Verdict != contract.VerdictReExecute {
			return st, nil
		}
		log.Debug().
			Str("session", st.Session.ID).
			Int("attempt", attempt).
			Str("reason", st.Evaluation.Reason).
			Msg("re-executing plan")
	}

	// The evaluator kept asking for retries past the ceiling.
	st.Evaluation = contract.Evaluation{
		Verdict: contract.VerdictEscalate,
		Score:   st.Evaluation.Score,
		Reason:  "execution passes exhausted",
	}
	return st, nil
}

func (o *Orchestrator) composeReply(ctx context.Context, st *GraphState) (*GraphState, error) {
	st.advance(StateResponding)

	switch st.Evaluation.Verdict {
	case contract.VerdictEscalate:
		st.Reply = o.failures.EscalationMessage()

	case contract.VerdictClarify:
		if st.Evaluation.Conflict != nil {
			st.Reply = o.failures.ContradictionPrompt(*st.Evaluation.Conflict)
		} else {
			prefix, _ := o.responder.Compose(ctx, o.composeRequest(st))
			question := o.failures.MissingFieldPrompt(st.Evaluation.ClarifyField)
			st.Reply = joinReply(prefix, question)
		}

	default:
		reply, err := o.responder.Compose(ctx, o.composeRequest(st))
		if err != nil {
			return nil, fmt.Errorf("compose reply: %w", err)
		}
		st.Reply = reply
	}
	return st, nil
}

func (o *Orchestrator) composeRequest(st *GraphState) contract.ComposeRequest {
	return contract.ComposeRequest{
		Intent:     st.Plan.Intent,
		Verdict:    st.Evaluation.Verdict,
		Report:     st.Report,
		Evaluation: st.Evaluation,
		Facts:      st.Session.Facts.Snapshot(),
		Query:      st.Text,
	}
}

func (o *Orchestrator) recordTurn(st *GraphState) (contract.TurnResult, error) {
	if st.Reply == "" {
		st.advance(StateErrored)
		return contract.TurnResult{}, fmt.Errorf("%w: empty reply", contract.ErrInternal)
	}

	st.Session.RecordTurn("user", st.Text)
	st.Session.RecordTurn("assistant", st.Reply)
	st.Session.Touch()
	st.advance(StateComplete)

	return contract.TurnResult{
		SessionID:    st.Session.ID,
		Response:     st.Reply,
		Verdict:      st.Evaluation.Verdict,
		UpdatedFacts: st.Session.Facts.Snapshot(),
	}, nil
}

func joinReply(prefix, question string) string {
	if prefix == "" {
		return question
	}
	return prefix + " " + question
}
