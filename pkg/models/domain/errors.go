package domain

import "fmt"

// InputError reports a malformed or unknown filter. Handlers translate it
// into a 400 response; it is never silently defaulted away.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientDataError marks a scope that cannot support discretization or
// mining (fewer than 2 disclosable rates, or zero transactions). It is a
// valid "no pattern found" outcome, not a failure.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient disclosable data: " + e.Reason
}

// DisclosureGuardError is a defensive invariant violation: some code path
// was about to expose a below-threshold count. Callers must fail closed.
type DisclosureGuardError struct {
	Context string
}

func (e *DisclosureGuardError) Error() string {
	return "disclosure guard tripped: " + e.Context
}

// UpstreamError wraps a failure of the optional narrator collaborator. The
// API boundary recovers from it by serving the ML-only result.
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
