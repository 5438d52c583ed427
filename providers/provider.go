// Package providers implements streaming generative backend support.
//
// A Provider opens a streaming chat call and yields a flat sequence of
// StreamUnits: text deltas, function-call fragments, and a terminal unit.
// The provider performs no accumulation of function-call fragments; the turn
// orchestrator owns that state so the "declaration complete" condition is
// explicit rather than inferred from which optional fields happen to be set.
package providers

import (
	"context"

	"github.com/pestaway/voiceagent/types"
)

// ChatRequest represents one streaming request to the backend. System
// instructions travel as the leading system-role message in Messages.
type ChatRequest struct {
	Messages    []types.Message `json:"messages"`
	Tools       []types.ToolDef `json:"tools,omitempty"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// Provider is the contract for streaming chat backends.
type Provider interface {
	ID() string

	// StreamChat opens a streaming call and returns a channel of units.
	// The channel is closed after a terminal unit (UnitDone or UnitError)
	// or when ctx is canceled. An error return means the call could not be
	// opened at all.
	StreamChat(ctx context.Context, req ChatRequest) (<-chan StreamUnit, error)

	// Close cleans up provider resources (e.g. HTTP connections).
	Close() error
}
