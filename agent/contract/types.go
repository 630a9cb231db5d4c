package contract

import "time"

// FieldName identifies one structured datum about the user. The set is
// closed: the fact store rejects anything else.
type FieldName string

const (
	FieldAge        FieldName = "age"
	FieldIncome     FieldName = "income"
	FieldGender     FieldName = "gender"
	FieldCategory   FieldName = "category"
	FieldState      FieldName = "state"
	FieldOccupation FieldName = "occupation"
	FieldDisability FieldName = "disability"
	FieldBPL        FieldName = "bpl"
	FieldArea       FieldName = "area"
)

var validFields = map[FieldName]struct{}{
	FieldAge: {}, FieldIncome: {}, FieldGender: {}, FieldCategory: {},
	FieldState: {}, FieldOccupation: {}, FieldDisability: {}, FieldBPL: {},
	FieldArea: {},
}

func (f FieldName) Valid() bool {
	_, ok := validFields[f]
	return ok
}

// Numeric reports whether the field compares by numeric value.
func (f FieldName) Numeric() bool {
	return f == FieldAge || f == FieldIncome
}

// Boolean reports whether the field holds a yes/no datum.
func (f FieldName) Boolean() bool {
	return f == FieldDisability || f == FieldBPL
}

// FactStatus is the confirmation state of a stored fact.
type FactStatus string

const (
	FactUnconfirmed FactStatus = "unconfirmed"
	FactConfirmed   FactStatus = "confirmed"
	// FactPending marks an active fact challenged by a newer, different
	// value. It stays authoritative until the user picks a side.
	FactPending    FactStatus = "pending_confirmation"
	FactSuperseded FactStatus = "superseded"
)

// Fact is the active value for one field in a session.
type Fact struct {
	Field      FieldName  `json:"field"`
	Value      any        `json:"value"`
	TurnIndex  int        `json:"turn_index"`
	Status     FactStatus `json:"status"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// HistoryEntry is an immutable record of a value the user stated for a
// field. History is append-only and never shrinks.
type HistoryEntry struct {
	Field      FieldName `json:"field"`
	Value      any       `json:"value"`
	TurnIndex  int       `json:"turn_index"`
	RecordedAt time.Time `json:"recorded_at"`
}

// PutOutcome classifies a fact-store write.
type PutOutcome string

const (
	PutAccepted      PutOutcome = "accepted"
	PutConfirmedDupe PutOutcome = "confirmed_duplicate"
	PutContradiction PutOutcome = "contradiction"
	PutRejected      PutOutcome = "rejected"
)

// Conflict surfaces a detected contradiction between the active value of a
// field and a newly stated one.
type Conflict struct {
	Field    FieldName `json:"field"`
	Previous any       `json:"previous"`
	Incoming any       `json:"incoming"`
}

// Intent labels what the user wants from this turn.
type Intent string

const (
	IntentGreeting         Intent = "greeting"
	IntentFarewell         Intent = "farewell"
	IntentEligibilityCheck Intent = "eligibility_check"
	IntentSchemeInquiry    Intent = "scheme_inquiry"
	IntentApplicationHelp  Intent = "application_help"
	IntentDocumentInfo     Intent = "document_info"
	IntentStatusInquiry    Intent = "status_inquiry"
	IntentProvideInfo      Intent = "provide_info"
	IntentCorrection       Intent = "correction"
	IntentGeneralQuestion  Intent = "general_question"
	IntentUnknown          Intent = "unknown"
)

// Classification is the language-understanding collaborator's answer.
type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// ToolName identifies a registered tool.
type ToolName string

const (
	ToolFactExtractor     ToolName = "fact_extractor"
	ToolEligibilityEngine ToolName = "eligibility_engine"
	ToolSchemeLookup      ToolName = "scheme_lookup"
	ToolDocumentChecker   ToolName = "document_checker"
	ToolApplicationStatus ToolName = "application_status"
)

// ToolInvocation is one planned tool call with resolved arguments.
type ToolInvocation struct {
	Tool ToolName       `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Plan is the planner's output for one turn. Ephemeral: discarded once the
// turn's executor run is over.
type Plan struct {
	Intent         Intent           `json:"intent"`
	Confidence     float64          `json:"confidence"`
	Query          string           `json:"query"`
	Steps          []ToolInvocation `json:"steps,omitempty"`
	RequiredFields []FieldName      `json:"required_fields,omitempty"`
	TurnIndex      int              `json:"turn_index"`
}

// Empty reports whether the plan invokes no tools.
func (p Plan) Empty() bool { return len(p.Steps) == 0 }

// ToolInput is the resolved input handed to a tool.
type ToolInput struct {
	Facts map[FieldName]any `json:"facts,omitempty"`
	Query string            `json:"query,omitempty"`
	Args  map[string]any    `json:"args,omitempty"`
}

// Payload is the tagged union of tool result payloads. One variant exists
// per payload kind so the evaluator and responder can branch exhaustively.
type Payload interface{ payloadKind() string }

// Candidate is one (field, value) pair proposed by the fact extractor.
// Candidates are untrusted until they pass through the fact store.
type Candidate struct {
	Field FieldName `json:"field"`
	Value any       `json:"value"`
}

type ExtractedFacts struct {
	Candidates []Candidate `json:"candidates"`
}

// EligibilityStatus is the per-scheme outcome of an eligibility check.
type EligibilityStatus string

const (
	Eligible          EligibilityStatus = "eligible"
	PartiallyEligible EligibilityStatus = "partially_eligible"
	Ineligible        EligibilityStatus = "ineligible"
)

// SchemeAssessment is the eligibility verdict for a single scheme.
type SchemeAssessment struct {
	SchemeID      string            `json:"scheme_id"`
	NameHi        string            `json:"name_hi"`
	NameEn        string            `json:"name_en"`
	Status        EligibilityStatus `json:"status"`
	MetCriteria   []string          `json:"met_criteria,omitempty"`
	Issues        []string          `json:"issues,omitempty"`
	UnknownFields []FieldName       `json:"unknown_fields,omitempty"`
	BenefitHi     string            `json:"benefit_hi,omitempty"`
}

type EligibilityReport struct {
	Eligible   []SchemeAssessment `json:"eligible,omitempty"`
	Partial    []SchemeAssessment `json:"partial,omitempty"`
	Ineligible []SchemeAssessment `json:"ineligible,omitempty"`
}

// ProgramRecord is a descriptive scheme record for lookup results.
type ProgramRecord struct {
	ID             string `json:"id"`
	NameHi         string `json:"name_hi"`
	NameEn         string `json:"name_en"`
	Category       string `json:"category"`
	DescriptionHi  string `json:"description_hi,omitempty"`
	BenefitHi      string `json:"benefit_hi,omitempty"`
	Helpline       string `json:"helpline,omitempty"`
	ApplicationURL string `json:"application_url,omitempty"`
}

type ProgramList struct {
	Programs []ProgramRecord `json:"programs"`
}

// DocumentRequirement describes one supporting document.
type DocumentRequirement struct {
	Name          string `json:"name"`
	DescriptionHi string `json:"description_hi,omitempty"`
}

type DocumentList struct {
	SchemeID     string                `json:"scheme_id"`
	SchemeNameHi string                `json:"scheme_name_hi"`
	Documents    []DocumentRequirement `json:"documents"`
}

// StatusRecord is a synthetic application-status record. Deterministic for
// a given application id.
type StatusRecord struct {
	ApplicationID string `json:"application_id"`
	SchemeID      string `json:"scheme_id,omitempty"`
	State         string `json:"state"`
	Stage         string `json:"stage,omitempty"`
	NextStepHi    string `json:"next_step_hi,omitempty"`
}

func (ExtractedFacts) payloadKind() string    { return "extracted_facts" }
func (EligibilityReport) payloadKind() string { return "eligibility_report" }
func (ProgramList) payloadKind() string       { return "program_list" }
func (DocumentList) payloadKind() string      { return "document_list" }
func (StatusRecord) payloadKind() string      { return "status_record" }

// ToolResult is the outcome of one tool invocation. Failures are carried
// here, never as Go errors past the registry boundary.
type ToolResult struct {
	Tool          ToolName    `json:"tool"`
	Success       bool        `json:"success"`
	Reason        string      `json:"reason,omitempty"`
	Payload       Payload     `json:"payload,omitempty"`
	MissingFields []FieldName `json:"missing_fields,omitempty"`
}

// ExecutionReport aggregates one executor pass over a plan.
type ExecutionReport struct {
	Results   []ToolResult `json:"results"`
	Conflicts []Conflict   `json:"conflicts,omitempty"`
	Accepted  []Candidate  `json:"accepted,omitempty"`
}

// FailedTools lists the tools that reported success=false.
func (r ExecutionReport) FailedTools() []ToolName {
	var failed []ToolName
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res.Tool)
		}
	}
	return failed
}

// ResultFor returns the first result produced by the named tool.
func (r ExecutionReport) ResultFor(name ToolName) (ToolResult, bool) {
	for _, res := range r.Results {
		if res.Tool == name {
			return res, true
		}
	}
	return ToolResult{}, false
}

// Verdict is the evaluator's decision for the turn.
type Verdict string

const (
	VerdictRespond   Verdict = "respond"
	VerdictReExecute Verdict = "re_execute"
	VerdictClarify   Verdict = "clarify"
	VerdictEscalate  Verdict = "escalate"
)

// Evaluation carries the verdict, a quality score in [0,1], and the reason.
type Evaluation struct {
	Verdict       Verdict     `json:"verdict"`
	Score         float64     `json:"score"`
	Reason        string      `json:"reason"`
	ClarifyField  FieldName   `json:"clarify_field,omitempty"`
	MissingFields []FieldName `json:"missing_fields,omitempty"`
	Conflict      *Conflict   `json:"conflict,omitempty"`
}

// TurnResult is what one submitted turn produces for the caller.
type TurnResult struct {
	SessionID    string            `json:"session_id"`
	Response     string            `json:"response"`
	Verdict      Verdict           `json:"verdict"`
	UpdatedFacts map[FieldName]any `json:"updated_facts,omitempty"`
}
