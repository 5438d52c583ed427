// Package dispatch executes function calls declared by the generative backend
// against their external providers.
//
// The recognized function set is closed: each function is a Function enum
// value with an associated invocation strategy, so a switch over the set is
// exhaustive at compile time instead of a string-keyed lookup that silently
// no-ops on typos. Failures of any kind (unknown name, invalid arguments,
// webhook transport faults, malformed responses) are converted into a
// structured Result and never surface as an error that could abort the turn.
package dispatch

// Function identifies one of the recognized callable functions.
type Function int

const (
	// FunctionUnknown is any name outside the recognized set.
	FunctionUnknown Function = iota

	// FunctionEndCall terminates the session. No external call is made.
	FunctionEndCall

	// FunctionCheckAvailability checks appointment availability against the
	// calendar webhook.
	FunctionCheckAvailability

	// FunctionLookupContact looks up the caller's record via the CRM webhook.
	FunctionLookupContact
)

// Wire names of the recognized functions, as declared to the backend.
const (
	NameEndCall           = "end-call"
	NameCheckAvailability = "calendar-availability-check"
	NameLookupContact     = "crm-lookup"
)

// FunctionFromName maps a wire name to its Function.
// Unrecognized names map to FunctionUnknown.
func FunctionFromName(name string) Function {
	switch name {
	case NameEndCall:
		return FunctionEndCall
	case NameCheckAvailability:
		return FunctionCheckAvailability
	case NameLookupContact:
		return FunctionLookupContact
	default:
		return FunctionUnknown
	}
}

// Name returns the wire name of the function.
func (f Function) Name() string {
	switch f {
	case FunctionEndCall:
		return NameEndCall
	case FunctionCheckAvailability:
		return NameCheckAvailability
	case FunctionLookupContact:
		return NameLookupContact
	default:
		return "unknown"
	}
}

// Result is the structured outcome of one dispatch. Exactly one dispatch
// happens per turn; the orchestrator maps the Result to spoken content.
type Result struct {
	// Function is the recognized function that was (or was not) invoked.
	Function Function

	// CallID references the MessageToolCall.ID that triggered the dispatch.
	CallID string

	// Available reports calendar availability (FunctionCheckAvailability).
	Available bool

	// Success reports CRM lookup success (FunctionLookupContact).
	Success bool

	// Message is the provider-supplied natural language message, if any.
	Message string

	// SuggestedTimes lists alternate appointment slots, if any.
	SuggestedTimes []string

	// Reason is the caller-supplied reason for ending the call (FunctionEndCall).
	Reason string

	// Err is set when the dispatch failed. The turn still completes normally.
	Err *ResultError
}

// ResultError is the structured failure shape for a dispatch.
type ResultError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Failed reports whether the dispatch produced a structured error.
func (r Result) Failed() bool {
	return r.Err != nil
}
