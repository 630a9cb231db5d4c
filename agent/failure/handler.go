// Package failure phrases the recovery side of the conversation: what to
// say when the assistant did not understand, needs a missing fact, caught
// the user contradicting themselves, or has to hand over to a human
// channel. Everything here is stateless and deterministic.
package failure

import (
	"fmt"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// Helpline is the national scheme helpline quoted in escalation messages.
const Helpline = "1800-111-555"

// TextFallbackThreshold is the low-confidence streak at which the
// assistant stops asking the user to repeat and offers typing instead.
const TextFallbackThreshold = 3

// fieldNamesHi maps fields to the Hindi noun used when asking for them.
var fieldNamesHi = map[contract.FieldName]string{
	contract.FieldAge:        "उम्र",
	contract.FieldIncome:     "सालाना आय",
	contract.FieldGender:     "लिंग",
	contract.FieldCategory:   "वर्ग (जैसे सामान्य, ओबीसी, एससी, एसटी)",
	contract.FieldState:      "राज्य",
	contract.FieldOccupation: "काम या व्यवसाय",
	contract.FieldDisability: "दिव्यांगता की स्थिति",
	contract.FieldBPL:        "बीपीएल कार्ड की जानकारी",
	contract.FieldArea:       "क्षेत्र (गांव या शहर)",
}

// lowConfidencePrompts escalate with each consecutive failure to
// understand. Index is the streak before this turn.
var lowConfidencePrompts = []string{
	"माफ़ कीजिए, मैं समझ नहीं पाई। कृपया माइक के पास थोड़ा धीरे और साफ बोलें।",
	"माफ़ कीजिए, अब भी समझ नहीं आया। कृपया अपनी बात दूसरे शब्दों में कहें, जैसे 'मुझे पेंशन योजना की जानकारी चाहिए'।",
	"लगता है आवाज़ साफ नहीं आ रही। अगर आप चाहें तो अपनी बात लिखकर भेज सकते हैं।",
}

// Handler owns the recovery wording. A struct rather than free functions so
// deployments can swap it for a localized or model-backed one later.
type Handler struct{}

func NewHandler() Handler { return Handler{} }

// LowConfidencePrompt returns the prompt for the given consecutive
// misunderstanding count (zero-based). Past the end of the ladder it stays
// on the text-fallback message.
func (Handler) LowConfidencePrompt(streak int) string {
	if streak < 0 {
		streak = 0
	}
	if streak >= len(lowConfidencePrompts) {
		streak = len(lowConfidencePrompts) - 1
	}
	return lowConfidencePrompts[streak]
}

// MissingFieldPrompt asks for one field in plain Hindi.
func (Handler) MissingFieldPrompt(field contract.FieldName) string {
	name, ok := fieldNamesHi[field]
	if !ok {
		name = string(field)
	}
	switch field {
	case contract.FieldAge:
		return "कृपया बताइए, आपकी उम्र कितनी है?"
	case contract.FieldIncome:
		return "कृपया बताइए, आपके परिवार की सालाना आय कितनी है?"
	default:
		return fmt.Sprintf("कृपया अपनी %s बताइए।", name)
	}
}

// ContradictionPrompt asks the user to pick between two stated values.
func (h Handler) ContradictionPrompt(c contract.Conflict) string {
	name, ok := fieldNamesHi[c.Field]
	if !ok {
		name = string(c.Field)
	}
	return fmt.Sprintf(
		"आपने पहले %s '%v' बताई थी, अब '%v' बता रहे हैं। कृपया बताएं कौन सी सही है, पहले वाली या नई वाली?",
		name, c.Previous, c.Incoming,
	)
}

// ConfirmResolution acknowledges which value won a contradiction.
func (Handler) ConfirmResolution(field contract.FieldName, value any) string {
	name, ok := fieldNamesHi[field]
	if !ok {
		name = string(field)
	}
	return fmt.Sprintf("ठीक है, मैंने आपकी %s '%v' दर्ज कर ली है।", name, value)
}

// EscalationMessage points the user to human help when the assistant gives
// up on a turn.
func (Handler) EscalationMessage() string {
	return fmt.Sprintf(
		"माफ़ कीजिए, मैं अभी इसमें आपकी मदद नहीं कर पा रही। कृपया हेल्पलाइन %s पर कॉल करें या अपने नजदीकी सीएससी (जन सेवा केंद्र) पर जाएं। वहां आपको पूरी मदद मिलेगी।",
		Helpline,
	)
}

// InternalFaultMessage is the generic apology for errors the user can do
// nothing about. It never leaks the underlying fault.
func (Handler) InternalFaultMessage() string {
	return "माफ़ कीजिए, कुछ तकनीकी समस्या आ गई है। कृपया थोड़ी देर बाद फिर से पूछें।"
}
