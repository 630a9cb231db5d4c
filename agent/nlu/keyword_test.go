package nlu

import (
	"context"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func TestKeywordClassifier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want contract.Intent
	}{
		{"नमस्ते", contract.IntentGreeting},
		{"धन्यवाद, अलविदा", contract.IntentFarewell},
		{"मुझे कौन सी योजना मिल सकती है", contract.IntentEligibilityCheck},
		{"पीएम किसान योजना क्या है", contract.IntentSchemeInquiry},
		{"आवेदन कैसे करें", contract.IntentApplicationHelp},
		{"कौन से दस्तावेज लगेंगे", contract.IntentDocumentInfo},
		{"मेरे आवेदन का क्या हुआ", contract.IntentStatusInquiry},
		{"PM123456 ka status batao", contract.IntentStatusInquiry},
		{"मैं 65 साल का हूं", contract.IntentProvideInfo},
		{"सब्सिडी कैसे मिलती है", contract.IntentGeneralQuestion},
		{"नहीं नहीं, वो गलत था", contract.IntentCorrection},
		{"", contract.IntentUnknown},
	}

	c := NewKeywordClassifier()
	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.text, err)
		}
		if got.Intent != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.text, got.Intent, tc.want)
		}
	}
}

func TestKeywordClassifierConfidence(t *testing.T) {
	t.Parallel()

	c := NewKeywordClassifier()

	hit, err := c.Classify(context.Background(), "नमस्ते")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if hit.Confidence < 0.8 {
		t.Errorf("keyword hit confidence = %v, want >= 0.8", hit.Confidence)
	}

	// Bare questions must clear the planner floor (0.6) or the
	// general_question plan is unreachable offline.
	question, err := c.Classify(context.Background(), "सब्सिडी कैसे मिलती है")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if question.Intent != contract.IntentGeneralQuestion {
		t.Fatalf("question intent = %s, want general_question", question.Intent)
	}
	if question.Confidence < 0.6 {
		t.Errorf("question confidence = %v, want >= 0.6", question.Confidence)
	}

	miss, err := c.Classify(context.Background(), "lorem ipsum dolor")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if miss.Intent != contract.IntentUnknown {
		t.Errorf("gibberish intent = %s, want unknown", miss.Intent)
	}
	if miss.Confidence >= 0.5 {
		t.Errorf("gibberish confidence = %v, want < 0.5", miss.Confidence)
	}
}

func TestKeywordClassifierIsDeterministic(t *testing.T) {
	t.Parallel()

	c := NewKeywordClassifier()
	const text = "मुझे पेंशन योजना की जानकारी चाहिए"
	first, _ := c.Classify(context.Background(), text)
	for i := 0; i < 10; i++ {
		again, _ := c.Classify(context.Background(), text)
		if again != first {
			t.Fatalf("classification drifted: %+v vs %+v", again, first)
		}
	}
}
