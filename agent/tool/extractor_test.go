package tool

import (
	"context"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func candidateValue(t *testing.T, cands []contract.Candidate, field contract.FieldName) any {
	t.Helper()
	for _, c := range cands {
		if c.Field == field {
			return c.Value
		}
	}
	t.Fatalf("no candidate for field %s in %+v", field, cands)
	return nil
}

func hasField(cands []contract.Candidate, field contract.FieldName) bool {
	for _, c := range cands {
		if c.Field == field {
			return true
		}
	}
	return false
}

func TestExtractAge(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want int
	}{
		{"मैं 65 साल का हूं", 65},
		{"meri umar 45 hai", 45},
		{"I am 30 years old", 30},
		{"उम्र 72", 72},
	}
	for _, tc := range cases {
		got := candidateValue(t, Extract(tc.text), contract.FieldAge)
		if got != tc.want {
			t.Errorf("Extract(%q) age = %v, want %d", tc.text, got, tc.want)
		}
	}

	if hasField(Extract("मुझे 500 रुपये चाहिए"), contract.FieldAge) {
		t.Error("extracted an age from a bare amount")
	}
}

func TestExtractIncome(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want float64
	}{
		{"मेरी आय 2 लाख है", 200000},
		{"income 1.5 lakh", 150000},
		{"कमाई 50 हजार है", 50000},
		{"meri income 80000 hai", 80000},
		{"आय 2 है", 200000},
	}
	for _, tc := range cases {
		got := candidateValue(t, Extract(tc.text), contract.FieldIncome)
		if got != tc.want {
			t.Errorf("Extract(%q) income = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestExtractCategorical(t *testing.T) {
	t.Parallel()

	cands := Extract("मैं विधवा हूं, गांव में रहती हूं, बीपीएल कार्ड है")
	if got := candidateValue(t, cands, contract.FieldGender); got != "female" {
		t.Errorf("gender = %v, want female", got)
	}
	if got := candidateValue(t, cands, contract.FieldArea); got != "rural" {
		t.Errorf("area = %v, want rural", got)
	}
	if got := candidateValue(t, cands, contract.FieldBPL); got != true {
		t.Errorf("bpl = %v, want true", got)
	}

	cands = Extract("main sc category se hoon")
	if got := candidateValue(t, cands, contract.FieldCategory); got != "sc" {
		t.Errorf("category = %v, want sc", got)
	}

	if hasField(Extract("this must be a test"), contract.FieldCategory) {
		t.Error("caste token matched inside an english word")
	}
}

func TestExtractOneCandidatePerField(t *testing.T) {
	t.Parallel()

	cands := Extract("मैं किसान हूं, खेती करता हूं")
	n := 0
	for _, c := range cands {
		if c.Field == contract.FieldOccupation {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("occupation candidates = %d, want 1", n)
	}
}

func TestExtractorToolNeverFails(t *testing.T) {
	t.Parallel()

	res, err := NewExtractor().Execute(context.Background(), contract.ToolInput{Query: "नमस्ते"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success {
		t.Fatalf("extractor failed: %s", res.Reason)
	}
	facts, ok := res.Payload.(contract.ExtractedFacts)
	if !ok {
		t.Fatalf("payload type %T", res.Payload)
	}
	if len(facts.Candidates) != 0 {
		t.Fatalf("candidates from a greeting: %+v", facts.Candidates)
	}
}
