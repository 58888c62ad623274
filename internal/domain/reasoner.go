package domain

import "context"

// ReasonerRequest is a single text-completion request.
type ReasonerRequest struct {
	Prompt          string
	Temperature     float64
	MaxOutputTokens int
}

// Reasoner is an external natural-language reasoning service.
type Reasoner interface {
	// Configured reports whether a credential is available. An unconfigured
	// reasoner must never be called.
	Configured() bool

	// Generate returns the service's free-form text answer.
	Generate(ctx context.Context, req ReasonerRequest) (string, error)
}

// DegradeCause names why a fallback result was used instead of a reasoner
// answer. The zero value means no degradation.
type DegradeCause string

const (
	CauseNone         DegradeCause = ""
	CauseNoCredential DegradeCause = "no_credential"
	CauseCallFailed   DegradeCause = "call_failed"
	CauseTimeout      DegradeCause = "timeout"
	CauseMalformed    DegradeCause = "malformed"
)
