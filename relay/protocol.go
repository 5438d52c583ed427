// Package relay terminates the conversational channel: it speaks the
// channel's websocket protocol, owns per-session state, and forwards turns to
// the agent orchestrator.
package relay

import (
	"encoding/json"

	"github.com/pestaway/voiceagent/types"
)

// Inbound interaction types. Only response_required and reminder_required
// produce a response; the rest are protocol housekeeping.
const (
	InteractionResponseRequired = "response_required"
	InteractionReminderRequired = "reminder_required"
	InteractionUpdateOnly       = "update_only"
	InteractionCallDetails      = "call_details"
	InteractionPingPong         = "ping_pong"
)

// Outbound response types.
const (
	ResponseTypeResponse = "response"
	ResponseTypeConfig   = "config"
	ResponseTypePingPong = "ping_pong"
)

// InboundEvent is one message received from the channel, tagged on
// interaction_type.
type InboundEvent struct {
	InteractionType string            `json:"interaction_type"`
	ResponseID      int               `json:"response_id"`
	Transcript      []types.Utterance `json:"transcript"`

	// Timestamp is echoed back for ping_pong events.
	Timestamp int64 `json:"timestamp,omitempty"`

	// Call carries session details for call_details events.
	Call *CallDetails `json:"call,omitempty"`
}

// CallDetails is the call_details payload. Metadata may carry a contact
// profile used to build the session's contact summary.
type CallDetails struct {
	CallID   string          `json:"call_id"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// OutboundEvent is one message sent to the channel.
type OutboundEvent struct {
	ResponseType    string `json:"response_type"`
	ResponseID      int    `json:"response_id"`
	Content         string `json:"content"`
	ContentComplete bool   `json:"content_complete"`
	EndCall         bool   `json:"end_call"`
}

// ConfigEvent is sent once at session start to configure the channel.
type ConfigEvent struct {
	ResponseType string       `json:"response_type"`
	Config       ConfigFields `json:"config"`
}

// ConfigFields are the channel options this server requests.
type ConfigFields struct {
	AutoReconnect bool `json:"auto_reconnect"`
	CallDetails   bool `json:"call_details"`
}

// PongEvent answers a ping_pong event, echoing the original timestamp.
type PongEvent struct {
	ResponseType string `json:"response_type"`
	Timestamp    int64  `json:"timestamp"`
}
