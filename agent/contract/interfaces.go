package contract

import "context"

// IntentClassifier is the language-understanding collaborator. It must be
// stateless: identical input yields identical output.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Tool is one pure function in the registry. Execute never panics across
// the registry boundary; the registry converts panics and errors into
// failed ToolResults.
type Tool interface {
	Name() ToolName
	RequiredFields() []FieldName
	// AllowPartial reports whether the tool can produce a useful result
	// when some required fields are absent.
	AllowPartial() bool
	Execute(ctx context.Context, in ToolInput) (ToolResult, error)
}

// Responder phrases the final reply for a turn. Implementations may call a
// language model; the default is template-based.
type Responder interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

// ComposeRequest carries everything a responder may want to phrase from.
type ComposeRequest struct {
	Intent     Intent
	Verdict    Verdict
	Report     ExecutionReport
	Evaluation Evaluation
	Facts      map[FieldName]any
	Query      string
}
