package tool

import (
	"context"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func testStore(t *testing.T) catalog.Store {
	t.Helper()
	store, err := catalog.NewStaticStore()
	if err != nil {
		t.Fatalf("NewStaticStore: %v", err)
	}
	return store
}

func assessmentFor(t *testing.T, list []contract.SchemeAssessment, id string) contract.SchemeAssessment {
	t.Helper()
	for _, a := range list {
		if a.SchemeID == id {
			return a
		}
	}
	t.Fatalf("scheme %s not in %+v", id, list)
	return contract.SchemeAssessment{}
}

func TestEligibilityMissingFactsFailsSoft(t *testing.T) {
	t.Parallel()

	engine := NewEligibilityEngine(testStore(t))
	res, err := engine.Execute(context.Background(), contract.ToolInput{
		Facts: map[contract.FieldName]any{contract.FieldAge: 65},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure without income")
	}
	if len(res.MissingFields) != 1 || res.MissingFields[0] != contract.FieldIncome {
		t.Fatalf("missing fields = %v, want [income]", res.MissingFields)
	}
}

func TestEligibilitySeniorUnderIncomeCap(t *testing.T) {
	t.Parallel()

	engine := NewEligibilityEngine(testStore(t))
	res, err := engine.Execute(context.Background(), contract.ToolInput{
		Facts: map[contract.FieldName]any{
			contract.FieldAge:    65,
			contract.FieldIncome: 150000.0,
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success {
		t.Fatalf("engine failed: %s", res.Reason)
	}
	report, ok := res.Payload.(contract.EligibilityReport)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}

	oap := assessmentFor(t, report.Eligible, "old-age-pension")
	if oap.Status != contract.Eligible {
		t.Errorf("old-age-pension status = %s, want eligible", oap.Status)
	}

	awas := assessmentFor(t, report.Ineligible, "pm-awas-gramin")
	if len(awas.Issues) == 0 {
		t.Error("pm-awas-gramin should carry an income issue")
	}

	kisan := assessmentFor(t, report.Partial, "pm-kisan")
	if len(kisan.UnknownFields) == 0 {
		t.Error("pm-kisan should be partial on unknown occupation")
	}
}

func TestEligibilityGenderRuleExcludesMen(t *testing.T) {
	t.Parallel()

	engine := NewEligibilityEngine(testStore(t))
	res, err := engine.Execute(context.Background(), contract.ToolInput{
		Facts: map[contract.FieldName]any{
			contract.FieldAge:    40,
			contract.FieldIncome: 100000.0,
			contract.FieldGender: "male",
		},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	report := res.Payload.(contract.EligibilityReport)
	widow := assessmentFor(t, report.Ineligible, "widow-pension")
	if widow.Status != contract.Ineligible {
		t.Errorf("widow-pension status = %s, want ineligible", widow.Status)
	}
}
