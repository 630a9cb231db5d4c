// Package evaluator grades one execution pass and decides how the turn
// proceeds: answer, retry, ask the user something, or give up and point at
// a human channel.
package evaluator

import (
	"fmt"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

const (
	// DefaultRespondThreshold is the quality score at or above which the
	// turn is answered directly.
	DefaultRespondThreshold = 0.8
	// DefaultRetryBudget is how many re-execute verdicts one turn may get.
	DefaultRetryBudget = 1

	successWeight      = 0.6
	completenessWeight = 0.4

	confirmedWeight   = 1.0
	unconfirmedWeight = 0.8

	// scoreEpsilon absorbs float rounding at the threshold; a 2/3 success
	// rate must not miss a 0.8 cutoff by 1e-16.
	scoreEpsilon = 1e-9
)

// centralTools are the ones whose failure makes the whole turn worthless.
// A failed scheme lookup alongside a good eligibility report is cosmetic; a
// failed eligibility engine on an eligibility turn is not.
var centralTools = map[contract.Intent]contract.ToolName{
	contract.IntentEligibilityCheck: contract.ToolEligibilityEngine,
	contract.IntentProvideInfo:      contract.ToolEligibilityEngine,
	contract.IntentSchemeInquiry:    contract.ToolSchemeLookup,
	contract.IntentApplicationHelp:  contract.ToolSchemeLookup,
	contract.IntentDocumentInfo:     contract.ToolDocumentChecker,
	contract.IntentStatusInquiry:    contract.ToolApplicationStatus,
	contract.IntentGeneralQuestion:  contract.ToolSchemeLookup,
}

// Evaluator is a pure decision function over the execution report. It holds
// no per-session state; attempt counting is the caller's job.
type Evaluator struct {
	respondThreshold float64
	retryBudget      int
}

type Option func(*Evaluator)

func WithRespondThreshold(v float64) Option {
	return func(e *Evaluator) { e.respondThreshold = v }
}

func WithRetryBudget(n int) Option {
	return func(e *Evaluator) { e.retryBudget = n }
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{respondThreshold: DefaultRespondThreshold, retryBudget: DefaultRetryBudget}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate applies the decision rules in fixed precedence: contradictions
// first, then missing required facts, then central-tool failures, then the
// quality score. attempt is zero-based: 0 is the first execution pass.
func (e *Evaluator) Evaluate(plan contract.Plan, report contract.ExecutionReport, statuses map[contract.FieldName]contract.FactStatus, attempt int) contract.Evaluation {
	if len(report.Conflicts) > 0 {
		c := report.Conflicts[0]
		return contract.Evaluation{
			Verdict:  contract.VerdictClarify,
			Score:    e.score(plan, report, statuses),
			Reason:   fmt.Sprintf("contradiction on %s", c.Field),
			Conflict: &c,
		}
	}

	if missing := e.missingRequired(plan, statuses); len(missing) > 0 {
		return contract.Evaluation{
			Verdict:       contract.VerdictClarify,
			Score:         e.score(plan, report, statuses),
			Reason:        fmt.Sprintf("missing required facts: %v", missing),
			ClarifyField:  missing[0],
			MissingFields: missing,
		}
	}

	if central, ok := centralTools[plan.Intent]; ok {
		if res, found := report.ResultFor(central); found && !res.Success {
			if attempt < e.retryBudget {
				return contract.Evaluation{
					Verdict: contract.VerdictReExecute,
					Score:   e.score(plan, report, statuses),
					Reason:  fmt.Sprintf("central tool %s failed: %s", central, res.Reason),
				}
			}
			return contract.Evaluation{
				Verdict: contract.VerdictEscalate,
				Score:   e.score(plan, report, statuses),
				Reason:  fmt.Sprintf("central tool %s failed after retry: %s", central, res.Reason),
			}
		}
	}

	score := e.score(plan, report, statuses)
	if score+scoreEpsilon >= e.respondThreshold {
		return contract.Evaluation{
			Verdict: contract.VerdictRespond,
			Score:   score,
			Reason:  "quality above threshold",
		}
	}

	// Below threshold with nothing structurally wrong: ask for the weakest
	// fact instead of guessing.
	if field, ok := weakestField(plan, statuses); ok {
		return contract.Evaluation{
			Verdict:       contract.VerdictClarify,
			Score:         score,
			Reason:        "quality below threshold",
			ClarifyField:  field,
			MissingFields: []contract.FieldName{field},
		}
	}
	return contract.Evaluation{
		Verdict: contract.VerdictClarify,
		Score:   score,
		Reason:  "quality below threshold",
	}
}

func (e *Evaluator) missingRequired(plan contract.Plan, statuses map[contract.FieldName]contract.FactStatus) []contract.FieldName {
	var missing []contract.FieldName
	for _, f := range plan.RequiredFields {
		status, ok := statuses[f]
		if !ok || status == contract.FactSuperseded {
			missing = append(missing, f)
		}
	}
	return missing
}

// score is successWeight * tool success rate + completenessWeight * fact
// completeness over the plan's required fields. A plan with no required
// fields counts as fully complete.
func (e *Evaluator) score(plan contract.Plan, report contract.ExecutionReport, statuses map[contract.FieldName]contract.FactStatus) float64 {
	successRate := 1.0
	if n := len(report.Results); n > 0 {
		ok := 0
		for _, r := range report.Results {
			if r.Success {
				ok++
			}
		}
		successRate = float64(ok) / float64(n)
	}

	completeness := 1.0
	if n := len(plan.RequiredFields); n > 0 {
		total := 0.0
		for _, f := range plan.RequiredFields {
			total += fieldWeight(statuses[f])
		}
		completeness = total / float64(n)
	}

	return successWeight*successRate + completenessWeight*completeness
}

func fieldWeight(status contract.FactStatus) float64 {
	switch status {
	case contract.FactConfirmed:
		return confirmedWeight
	case contract.FactUnconfirmed, contract.FactPending:
		return unconfirmedWeight
	default:
		return 0
	}
}

// weakestField picks the required field contributing least to completeness.
func weakestField(plan contract.Plan, statuses map[contract.FieldName]contract.FactStatus) (contract.FieldName, bool) {
	var (
		best  contract.FieldName
		found bool
	)
	bestW := 2.0
	for _, f := range plan.RequiredFields {
		if w := fieldWeight(statuses[f]); w < bestW {
			best, bestW, found = f, w, true
		}
	}
	return best, found
}
