// Package nlu turns a raw Hindi or Hinglish utterance into an intent. Two
// classifiers exist: a deterministic keyword classifier that always works
// offline, and an LLM-backed one that falls back to keywords on failure.
package nlu

import (
	"context"
	"strings"

	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/tool"
)

type intentRule struct {
	Intent   contract.Intent
	Keywords []string
}

// intentRules are checked in order; the first hit wins. Correction comes
// before the informational intents so "नहीं, गलत बताया" is not mistaken
// for new information.
var intentRules = []intentRule{
	{contract.IntentCorrection, []string{
		"गलत बताया", "गलत था", "सही नहीं", "नहीं नहीं", "मेरा मतलब", "galat bataya", "sahi nahi",
	}},
	{contract.IntentGreeting, []string{
		"नमस्ते", "नमस्कार", "प्रणाम", "राम राम", "namaste", "namaskar", "hello", "हेलो", "हाय",
	}},
	{contract.IntentFarewell, []string{
		"धन्यवाद", "शुक्रिया", "अलविदा", "फिर मिलेंगे", "dhanyavad", "shukriya", "alvida", "bye",
	}},
	{contract.IntentStatusInquiry, []string{
		"स्थिति", "स्टेटस", "status", "कब मिलेगा", "कहां तक पहुंचा", "क्या हुआ", "kya hua", "kab milega",
	}},
	{contract.IntentDocumentInfo, []string{
		"दस्तावेज", "कागज", "कागजात", "document", "kagaz", "क्या लगेगा", "kya lagega",
	}},
	{contract.IntentApplicationHelp, []string{
		"आवेदन", "अप्लाई", "apply", "फॉर्म", "form", "कैसे करें", "कैसे करूं", "avedan", "kaise karen",
	}},
	{contract.IntentEligibilityCheck, []string{
		"पात्र", "हकदार", "मिल सकती", "मिल सकता", "कौन सी योजना", "कौनसी योजना", "eligible", "patra",
		"मुझे क्या मिलेगा", "kya milega",
	}},
	{contract.IntentSchemeInquiry, []string{
		"योजना", "स्कीम", "scheme", "yojana", "जानकारी", "बताओ", "बताइए", "jankari",
	}},
}

// KeywordClassifier is the deterministic intent classifier. Stateless and
// safe for concurrent use.
type KeywordClassifier struct{}

var _ contract.IntentClassifier = KeywordClassifier{}

func NewKeywordClassifier() KeywordClassifier { return KeywordClassifier{} }

func (KeywordClassifier) Classify(_ context.Context, text string) (contract.Classification, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return contract.Classification{Intent: contract.IntentUnknown, Confidence: 0}, nil
	}

	for _, rule := range intentRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(t, kw) {
				return contract.Classification{Intent: rule.Intent, Confidence: 0.9}, nil
			}
		}
	}

	// No intent keyword, but the message may still carry facts: "मैं 65
	// साल का हूं" is the user answering a question.
	if len(tool.Extract(t)) > 0 {
		return contract.Classification{Intent: contract.IntentProvideInfo, Confidence: 0.85}, nil
	}

	// 0.65 clears the planner's confidence floor: a bare question should
	// reach the lookup plan, not the unintelligible-input ladder.
	if strings.ContainsRune(t, '?') || strings.Contains(t, "क्या") || strings.Contains(t, "कैसे") {
		return contract.Classification{Intent: contract.IntentGeneralQuestion, Confidence: 0.65}, nil
	}

	return contract.Classification{Intent: contract.IntentUnknown, Confidence: 0.2}, nil
}
