package evaluator

import (
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func eligibilityPlan() contract.Plan {
	return contract.Plan{
		Intent: contract.IntentEligibilityCheck,
		Steps: []contract.ToolInvocation{
			{Tool: contract.ToolFactExtractor},
			{Tool: contract.ToolEligibilityEngine},
		},
		RequiredFields: []contract.FieldName{contract.FieldAge, contract.FieldIncome},
	}
}

func okReport() contract.ExecutionReport {
	return contract.ExecutionReport{
		Results: []contract.ToolResult{
			{Tool: contract.ToolFactExtractor, Success: true},
			{Tool: contract.ToolEligibilityEngine, Success: true},
		},
	}
}

func TestEvaluateRespondsOnCleanRun(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge:    contract.FactConfirmed,
		contract.FieldIncome: contract.FactConfirmed,
	}
	ev := e.Evaluate(eligibilityPlan(), okReport(), statuses, 0)
	if ev.Verdict != contract.VerdictRespond {
		t.Fatalf("verdict = %s, want respond (%s)", ev.Verdict, ev.Reason)
	}
	if ev.Score != 1.0 {
		t.Errorf("score = %v, want 1.0", ev.Score)
	}
}

func TestEvaluateNeverRespondsWithMissingRequiredField(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge: contract.FactConfirmed,
	}
	ev := e.Evaluate(eligibilityPlan(), okReport(), statuses, 0)
	if ev.Verdict != contract.VerdictClarify {
		t.Fatalf("verdict = %s, want clarify", ev.Verdict)
	}
	if ev.ClarifyField != contract.FieldIncome {
		t.Errorf("clarify field = %s, want income", ev.ClarifyField)
	}
}

func TestEvaluateContradictionWinsOverEverything(t *testing.T) {
	t.Parallel()

	e := New()
	report := okReport()
	report.Conflicts = []contract.Conflict{
		{Field: contract.FieldAge, Previous: 30, Incoming: 65},
	}
	// Required fields missing too; the contradiction still takes precedence.
	ev := e.Evaluate(eligibilityPlan(), report, nil, 0)
	if ev.Verdict != contract.VerdictClarify {
		t.Fatalf("verdict = %s, want clarify", ev.Verdict)
	}
	if ev.Conflict == nil || ev.Conflict.Field != contract.FieldAge {
		t.Fatalf("conflict = %+v", ev.Conflict)
	}
}

func TestEvaluateCentralFailureRetriesThenEscalates(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge:    contract.FactConfirmed,
		contract.FieldIncome: contract.FactConfirmed,
	}
	report := contract.ExecutionReport{
		Results: []contract.ToolResult{
			{Tool: contract.ToolFactExtractor, Success: true},
			{Tool: contract.ToolEligibilityEngine, Success: false, Reason: "backend down"},
		},
	}

	first := e.Evaluate(eligibilityPlan(), report, statuses, 0)
	if first.Verdict != contract.VerdictReExecute {
		t.Fatalf("attempt 0 verdict = %s, want re_execute", first.Verdict)
	}

	second := e.Evaluate(eligibilityPlan(), report, statuses, 1)
	if second.Verdict != contract.VerdictEscalate {
		t.Fatalf("attempt 1 verdict = %s, want escalate", second.Verdict)
	}
}

func TestEvaluatePeripheralFailureStillResponds(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge:    contract.FactConfirmed,
		contract.FieldIncome: contract.FactConfirmed,
	}
	plan := eligibilityPlan()
	plan.Steps = append(plan.Steps, contract.ToolInvocation{Tool: contract.ToolSchemeLookup})
	report := contract.ExecutionReport{
		Results: []contract.ToolResult{
			{Tool: contract.ToolFactExtractor, Success: true},
			{Tool: contract.ToolEligibilityEngine, Success: true},
			{Tool: contract.ToolSchemeLookup, Success: false, Reason: "timeout"},
		},
	}
	ev := e.Evaluate(plan, report, statuses, 0)
	if ev.Verdict != contract.VerdictRespond {
		t.Fatalf("verdict = %s, want respond (%s)", ev.Verdict, ev.Reason)
	}
}

func TestEvaluateScoreBlendsSuccessAndCompleteness(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge:    contract.FactUnconfirmed,
		contract.FieldIncome: contract.FactUnconfirmed,
	}
	ev := e.Evaluate(eligibilityPlan(), okReport(), statuses, 0)
	// 0.6*1.0 + 0.4*0.8 = 0.92
	if ev.Score < 0.91 || ev.Score > 0.93 {
		t.Errorf("score = %v, want ~0.92", ev.Score)
	}
	if ev.Verdict != contract.VerdictRespond {
		t.Errorf("verdict = %s, want respond", ev.Verdict)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	t.Parallel()

	e := New()
	statuses := map[contract.FieldName]contract.FactStatus{
		contract.FieldAge:    contract.FactConfirmed,
		contract.FieldIncome: contract.FactUnconfirmed,
	}
	first := e.Evaluate(eligibilityPlan(), okReport(), statuses, 0)
	for i := 0; i < 5; i++ {
		if again := e.Evaluate(eligibilityPlan(), okReport(), statuses, 0); again.Verdict != first.Verdict || again.Score != first.Score {
			t.Fatalf("evaluation drifted: %+v vs %+v", again, first)
		}
	}
}
