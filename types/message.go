// Package types defines the canonical conversation types shared across the
// voice agent: messages exchanged with the generative backend, tool call and
// tool result records, and transcript utterances reported by the channel.
package types

import "encoding/json"

// Role values used in backend conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Transcript roles as reported by the channel.
const (
	SpeakerAgent = "agent"
	SpeakerUser  = "user"
)

// Message represents a single message sent to the generative backend.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// Tool invocations (for assistant messages that declared a function call)
	ToolCalls []MessageToolCall `json:"tool_calls,omitempty"`

	// Tool result (for tool role messages)
	ToolResult *MessageToolResult `json:"tool_result,omitempty"`
}

// MessageToolCall represents a function call declared by the backend.
// Args holds the JSON-encoded arguments once the declaration is complete.
type MessageToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// MessageToolResult represents the resolved result of a function call.
// When embedded in a Message, the Message.Role should be RoleTool.
type MessageToolResult struct {
	ID      string `json:"id"`   // References the MessageToolCall.ID that triggered this result
	Name    string `json:"name"` // Function name that was executed
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// ToolDef represents a function definition provided to the backend.
// InputSchema uses JSON Schema format.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Utterance is one turn of the call transcript as reported by the channel.
// The transcript is append-only from the channel's perspective and read-only
// to this service.
type Utterance struct {
	Role    string `json:"role"` // SpeakerAgent or SpeakerUser
	Content string `json:"content"`
}
