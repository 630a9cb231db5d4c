// Package planner turns a classified utterance into an ordered tool plan.
// Planning is deterministic: the same utterance, session scheme and turn
// index always yield the same plan.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/catalog"
	"github.com/sahai-labs/sahai-agent/agent/contract"
	"github.com/sahai-labs/sahai-agent/agent/tool"
)

// DefaultMinConfidence is the classification confidence below which the
// planner refuses to plan and asks the caller to recover.
const DefaultMinConfidence = 0.6

type intentPlan struct {
	Steps          []contract.ToolName
	RequiredFields []contract.FieldName
}

// intentPlans fixes the tool order per intent. The fact extractor always
// runs first so later tools see facts stated in this very utterance.
var intentPlans = map[contract.Intent]intentPlan{
	contract.IntentEligibilityCheck: {
		Steps:          []contract.ToolName{contract.ToolFactExtractor, contract.ToolEligibilityEngine, contract.ToolSchemeLookup},
		RequiredFields: []contract.FieldName{contract.FieldAge, contract.FieldIncome},
	},
	contract.IntentSchemeInquiry: {
		Steps: []contract.ToolName{contract.ToolFactExtractor, contract.ToolSchemeLookup},
	},
	contract.IntentApplicationHelp: {
		Steps: []contract.ToolName{contract.ToolFactExtractor, contract.ToolSchemeLookup, contract.ToolDocumentChecker},
	},
	contract.IntentDocumentInfo: {
		Steps: []contract.ToolName{contract.ToolFactExtractor, contract.ToolDocumentChecker, contract.ToolSchemeLookup},
	},
	contract.IntentStatusInquiry: {
		Steps: []contract.ToolName{contract.ToolFactExtractor, contract.ToolApplicationStatus},
	},
	contract.IntentProvideInfo: {
		Steps:          []contract.ToolName{contract.ToolFactExtractor, contract.ToolEligibilityEngine},
		RequiredFields: []contract.FieldName{contract.FieldAge, contract.FieldIncome},
	},
	contract.IntentGeneralQuestion: {
		Steps: []contract.ToolName{contract.ToolFactExtractor, contract.ToolSchemeLookup},
	},
	// Conversational intents run no tools; the responder answers directly.
	contract.IntentGreeting:   {},
	contract.IntentFarewell:   {},
	contract.IntentCorrection: {},
}

// Planner builds the turn plan from the classifier's output.
type Planner struct {
	classifier    contract.IntentClassifier
	minConfidence float64
}

type Option func(*Planner)

func WithMinConfidence(v float64) Option {
	return func(p *Planner) { p.minConfidence = v }
}

func New(classifier contract.IntentClassifier, opts ...Option) (*Planner, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is required", contract.ErrValidation)
	}
	p := &Planner{classifier: classifier, minConfidence: DefaultMinConfidence}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PlanTurn classifies text and resolves the tool plan. currentScheme is the
// scheme the session was last talking about, used when the utterance names
// none. Returns ErrLowConfidence when classification is below the floor.
func (p *Planner) PlanTurn(ctx context.Context, text string, currentScheme string, turnIndex int) (contract.Plan, error) {
	cls, err := p.classifier.Classify(ctx, text)
	if err != nil {
		return contract.Plan{}, fmt.Errorf("classify: %w", err)
	}

	log.Debug().
		Str("intent", string(cls.Intent)).
		Float64("confidence", cls.Confidence).
		Int("turn", turnIndex).
		Msg("classified utterance")

	if cls.Intent == contract.IntentUnknown || cls.Confidence < p.minConfidence {
		return contract.Plan{}, fmt.Errorf("%w: intent=%s confidence=%.2f", contract.ErrLowConfidence, cls.Intent, cls.Confidence)
	}

	tmpl := intentPlans[cls.Intent]
	plan := contract.Plan{
		Intent:         cls.Intent,
		Confidence:     cls.Confidence,
		Query:          text,
		RequiredFields: tmpl.RequiredFields,
		TurnIndex:      turnIndex,
	}

	schemeID := catalog.MatchSchemeID(text)
	if schemeID == "" {
		schemeID = currentScheme
	}
	applicationID := ""
	if m := tool.ApplicationIDPattern.FindStringSubmatch(strings.ToUpper(text)); m != nil {
		applicationID = m[1]
	}

	for _, name := range tmpl.Steps {
		inv := contract.ToolInvocation{Tool: name}
		switch name {
		case contract.ToolSchemeLookup, contract.ToolDocumentChecker:
			if schemeID != "" {
				inv.Args = map[string]any{"scheme_id": schemeID}
			}
		case contract.ToolApplicationStatus:
			if applicationID != "" {
				inv.Args = map[string]any{"application_id": applicationID}
			}
		}
		plan.Steps = append(plan.Steps, inv)
	}
	return plan, nil
}

// ResolvedScheme reports which scheme the plan is about, for the session to
// remember across turns.
func ResolvedScheme(plan contract.Plan) string {
	for _, step := range plan.Steps {
		if id, ok := step.Args["scheme_id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
