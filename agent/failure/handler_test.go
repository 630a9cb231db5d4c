package failure

import (
	"strings"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func TestLowConfidencePromptEscalates(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	first := h.LowConfidencePrompt(0)
	second := h.LowConfidencePrompt(1)
	third := h.LowConfidencePrompt(2)

	if first == second || second == third || first == third {
		t.Fatal("prompts must differ as the streak grows")
	}
	if !strings.Contains(third, "लिख") {
		t.Errorf("third prompt should offer the text fallback: %q", third)
	}

	// Past the ladder it stays on the final message.
	if h.LowConfidencePrompt(7) != third {
		t.Error("prompt past the ladder should repeat the text fallback")
	}
	if h.LowConfidencePrompt(-1) != first {
		t.Error("negative streak should clamp to the first prompt")
	}
}

func TestMissingFieldPrompt(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	if got := h.MissingFieldPrompt(contract.FieldAge); !strings.Contains(got, "उम्र") {
		t.Errorf("age prompt = %q", got)
	}
	if got := h.MissingFieldPrompt(contract.FieldIncome); !strings.Contains(got, "आय") {
		t.Errorf("income prompt = %q", got)
	}
	if got := h.MissingFieldPrompt(contract.FieldBPL); !strings.Contains(got, "बीपीएल") {
		t.Errorf("bpl prompt = %q", got)
	}
}

func TestContradictionPromptNamesBothValues(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	got := h.ContradictionPrompt(contract.Conflict{
		Field:    contract.FieldAge,
		Previous: 30,
		Incoming: 65,
	})
	if !strings.Contains(got, "30") || !strings.Contains(got, "65") {
		t.Fatalf("prompt must quote both values: %q", got)
	}
	if !strings.Contains(got, "उम्र") {
		t.Errorf("prompt must name the field in hindi: %q", got)
	}
}

func TestEscalationMessageCarriesHelpline(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	if got := h.EscalationMessage(); !strings.Contains(got, Helpline) {
		t.Fatalf("escalation message must quote the helpline: %q", got)
	}
}

func TestInternalFaultMessageIsGeneric(t *testing.T) {
	t.Parallel()

	h := NewHandler()
	got := h.InternalFaultMessage()
	for _, leak := range []string{"error", "panic", "nil", "stack"} {
		if strings.Contains(strings.ToLower(got), leak) {
			t.Errorf("fault message leaks internals: %q", got)
		}
	}
}
