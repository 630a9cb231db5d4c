package contract

import "errors"

// Missing fields, contradictions, tool failures and exhausted retries are
// conversational outcomes, not Go errors: they travel as Verdicts, Conflicts
// and failed ToolResults. Errors here are for programmer-facing failures.
var (
	ErrLowConfidence  = errors.New("intent confidence below threshold")
	ErrSessionExpired = errors.New("session expired")
	ErrInternal       = errors.New("internal fault")
	ErrValidation     = errors.New("validation failed")
	ErrUnknownField   = errors.New("field is not in the known set")
)
