package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func greetingRequest() contract.ComposeRequest {
	return contract.ComposeRequest{
		Intent:  contract.IntentGreeting,
		Verdict: contract.VerdictRespond,
	}
}

func TestLLMResponderRewritesDraft(t *testing.T) {
	t.Parallel()

	var gotUser string
	r := &llmResponder{
		complete: func(_ context.Context, _, user string) (string, error) {
			gotUser = user
			return "नमस्ते जी! बताइए, किस योजना के बारे में जानना है?", nil
		},
		draft: NewTemplateResponder(),
	}

	out, err := r.Compose(context.Background(), greetingRequest())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(out, "नमस्ते जी") {
		t.Errorf("rewrite not used: %q", out)
	}
	if !strings.Contains(gotUser, "नमस्ते") {
		t.Errorf("model must receive the template draft, got %q", gotUser)
	}
}

func TestLLMResponderFallsBackOnModelError(t *testing.T) {
	t.Parallel()

	r := &llmResponder{
		complete: func(context.Context, string, string) (string, error) {
			return "", errors.New("upstream 502")
		},
		draft: NewTemplateResponder(),
	}

	out, err := r.Compose(context.Background(), greetingRequest())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.Contains(out, "नमस्ते") {
		t.Errorf("draft must answer when the model fails: %q", out)
	}
}

func TestLLMResponderSkipsModelOnEmptyDraft(t *testing.T) {
	t.Parallel()

	called := false
	r := &llmResponder{
		complete: func(context.Context, string, string) (string, error) {
			called = true
			return "कुछ", nil
		},
		draft: NewTemplateResponder(),
	}

	// A clarify turn with nothing to phrase yields an empty draft; there is
	// nothing for the model to rewrite.
	out, err := r.Compose(context.Background(), contract.ComposeRequest{
		Intent:  contract.IntentEligibilityCheck,
		Verdict: contract.VerdictClarify,
	})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if out != "" || called {
		t.Errorf("out = %q, called = %v; want empty draft passed through", out, called)
	}
}
