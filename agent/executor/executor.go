// Package executor runs a plan's tools in order against the session's fact
// store. Execution is fail-soft: a failed tool is recorded and the rest of
// the plan still runs, so one bad step never wipes out the turn.
package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/memory"
	"github.com/sahai-labs/sahai-agent/agent/tool"
)

type Executor struct {
	registry *tool.Registry
}

func New(registry *tool.Registry) (*Executor, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: registry is required", contract.ErrValidation)
	}
	return &Executor{registry: registry}, nil
}

// Run executes every step of the plan in order. Extracted fact candidates
// are pushed through the fact store immediately, so tools later in the
// same plan see facts stated in this very utterance. The report's conflicts
// are every contradiction still unresolved in the store, parked this pass
// or on an earlier turn; none are resolved here.
func (e *Executor) Run(ctx context.Context, plan contract.Plan, facts *memory.FactStore) (contract.ExecutionReport, error) {
	if facts == nil {
		return contract.ExecutionReport{}, fmt.Errorf("%w: fact store is required", contract.ErrValidation)
	}

	var report contract.ExecutionReport
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("execution aborted: %w", err)
		}

		in := contract.ToolInput{
			Facts: facts.Snapshot(),
			Query: plan.Query,
			Args:  step.Args,
		}
		res := e.registry.Execute(ctx, step.Tool, in)
		report.Results = append(report.Results, res)

		if !res.Success {
			log.Debug().
				Str("tool", string(step.Tool)).
				Str("reason", res.Reason).
				Msg("tool step failed")
			continue
		}

		if extracted, ok := res.Payload.(contract.ExtractedFacts); ok {
			e.absorb(extracted, plan.TurnIndex, facts, &report)
		}
	}

	// Contradictions gate at the store level: one left pending on an earlier
	// turn keeps surfacing until the user settles it.
	for _, p := range facts.PendingConflicts() {
		report.Conflicts = append(report.Conflicts, p.Conflict)
	}
	return report, nil
}

// absorb writes extracted candidates into the fact store. Rejected
// candidates are dropped silently; malformed speech-to-text output is
// routine, not an error. Contradicting candidates are parked by Put and
// surface through the pending set at the end of Run.
func (e *Executor) absorb(extracted contract.ExtractedFacts, turnIndex int, facts *memory.FactStore, report *contract.ExecutionReport) {
	for _, cand := range extracted.Candidates {
		outcome, _, err := facts.Put(cand.Field, cand.Value, turnIndex)
		if err != nil {
			log.Debug().Err(err).Str("field", string(cand.Field)).Msg("dropped fact candidate")
			continue
		}
		if outcome == contract.PutAccepted || outcome == contract.PutConfirmedDupe {
			report.Accepted = append(report.Accepted, cand)
		}
	}
}
