package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// templateResponder phrases replies from fixed Hindi templates. It is the
// default responder: deterministic, offline, and fast enough for voice.
type templateResponder struct{}

var _ contract.Responder = templateResponder{}

// NewTemplateResponder returns the canned-Hindi responder.
func NewTemplateResponder() contract.Responder { return templateResponder{} }

func (templateResponder) Compose(_ context.Context, req contract.ComposeRequest) (string, error) {
	switch req.Intent {
	case contract.IntentGreeting:
		return "नमस्ते! मैं सरकारी योजनाओं में आपकी मदद के लिए हूं। आप मुझसे योजना, पात्रता, दस्तावेज या आवेदन की स्थिति के बारे में पूछ सकते हैं।", nil
	case contract.IntentFarewell:
		return "धन्यवाद! फिर कभी योजनाओं के बारे में जानना हो तो जरूर पूछिएगा। नमस्ते!", nil
	case contract.IntentCorrection:
		return "ठीक है, आप सही जानकारी बता दीजिए, मैं उसे दर्ज कर लूंगी।", nil
	}

	var parts []string
	if res, ok := req.Report.ResultFor(contract.ToolEligibilityEngine); ok && res.Success {
		if report, ok := res.Payload.(contract.EligibilityReport); ok {
			parts = append(parts, phraseEligibility(report))
		}
	}
	if res, ok := req.Report.ResultFor(contract.ToolApplicationStatus); ok && res.Success {
		if rec, ok := res.Payload.(contract.StatusRecord); ok {
			parts = append(parts, phraseStatus(rec))
		}
	}
	if res, ok := req.Report.ResultFor(contract.ToolDocumentChecker); ok && res.Success {
		if docs, ok := res.Payload.(contract.DocumentList); ok {
			parts = append(parts, phraseDocuments(docs))
		}
	}
	// The program list is the fallback body: skip it when a richer payload
	// already answered the question.
	if len(parts) == 0 {
		if res, ok := req.Report.ResultFor(contract.ToolSchemeLookup); ok && res.Success {
			if list, ok := res.Payload.(contract.ProgramList); ok {
				parts = append(parts, phrasePrograms(list))
			}
		}
	}

	if len(parts) == 0 {
		if req.Verdict == contract.VerdictClarify {
			return "", nil
		}
		return "", fmt.Errorf("%w: nothing to phrase for intent %s", contract.ErrInternal, req.Intent)
	}
	return strings.Join(parts, "\n\n"), nil
}

func phraseEligibility(report contract.EligibilityReport) string {
	var b strings.Builder
	switch {
	case len(report.Eligible) > 0:
		b.WriteString("खुशखबरी! आप इन योजनाओं के लिए पात्र हैं:\n")
		for _, a := range report.Eligible {
			fmt.Fprintf(&b, "- %s: %s\n", a.NameHi, a.BenefitHi)
		}
		if len(report.Partial) > 0 {
			b.WriteString("कुछ और जानकारी देने पर ये योजनाएं भी मिल सकती हैं:\n")
			for _, a := range report.Partial {
				fmt.Fprintf(&b, "- %s\n", a.NameHi)
			}
		}
	case len(report.Partial) > 0:
		b.WriteString("इन योजनाओं के लिए आप पात्र हो सकते हैं, थोड़ी और जानकारी चाहिए:\n")
		for _, a := range report.Partial {
			fmt.Fprintf(&b, "- %s\n", a.NameHi)
		}
	default:
		b.WriteString("अभी दी गई जानकारी के अनुसार कोई योजना नहीं मिल रही। हो सकता है राज्य स्तर की योजनाएं आपके लिए हों, नजदीकी जन सेवा केंद्र पर पता करें।")
	}
	return strings.TrimSpace(b.String())
}

func phrasePrograms(list contract.ProgramList) string {
	if len(list.Programs) == 0 {
		return "इस बारे में कोई योजना नहीं मिली।"
	}
	if len(list.Programs) == 1 {
		p := list.Programs[0]
		var b strings.Builder
		fmt.Fprintf(&b, "%s: %s", p.NameHi, p.DescriptionHi)
		if p.BenefitHi != "" {
			fmt.Fprintf(&b, "\nलाभ: %s", p.BenefitHi)
		}
		if p.Helpline != "" {
			fmt.Fprintf(&b, "\nहेल्पलाइन: %s", p.Helpline)
		}
		return b.String()
	}
	var b strings.Builder
	b.WriteString("ये योजनाएं उपलब्ध हैं:\n")
	for _, p := range list.Programs {
		fmt.Fprintf(&b, "- %s (%s)\n", p.NameHi, p.Category)
	}
	b.WriteString("किसी एक के बारे में विस्तार से पूछ सकते हैं।")
	return b.String()
}

func phraseDocuments(docs contract.DocumentList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s के लिए ये दस्तावेज चाहिए:\n", docs.SchemeNameHi)
	for _, d := range docs.Documents {
		if d.DescriptionHi != "" {
			fmt.Fprintf(&b, "- %s\n", d.DescriptionHi)
		} else {
			fmt.Fprintf(&b, "- %s\n", d.Name)
		}
	}
	return strings.TrimSpace(b.String())
}

var statusHi = map[string]string{
	"approved": "मंजूर हो गया है",
	"pending":  "अभी प्रक्रिया में है",
	"rejected": "अस्वीकृत हो गया है",
}

func phraseStatus(rec contract.StatusRecord) string {
	state, ok := statusHi[rec.State]
	if !ok {
		state = rec.State
	}
	var b strings.Builder
	fmt.Fprintf(&b, "आपका आवेदन %s %s।", rec.ApplicationID, state)
	if rec.NextStepHi != "" {
		fmt.Fprintf(&b, " %s", rec.NextStepHi)
	}
	return b.String()
}
