package providers

// UnitKind discriminates the kinds of stream units a backend can yield.
type UnitKind int

const (
	// UnitText carries a plain text delta.
	UnitText UnitKind = iota

	// UnitToolCallDelta carries a fragment of a function-call declaration.
	// The fragment that opens a declaration carries ToolCallID and ToolName;
	// every fragment (including the first) may carry an ArgsDelta.
	UnitToolCallDelta

	// UnitDone marks the normal end of the stream.
	UnitDone

	// UnitError marks an abnormal end of the stream. Err is set.
	UnitError
)

// String returns the unit kind name for logging and metrics labels.
func (k UnitKind) String() string {
	switch k {
	case UnitText:
		return "text"
	case UnitToolCallDelta:
		return "tool_call_delta"
	case UnitDone:
		return "done"
	case UnitError:
		return "error"
	default:
		return "unknown"
	}
}

// StreamUnit is one unit of backend output.
type StreamUnit struct {
	Kind UnitKind

	// Delta is the new text content (UnitText).
	Delta string

	// ToolCallIndex is the backend's positional index for the declaration a
	// fragment belongs to. Set on every fragment (UnitToolCallDelta), so
	// fragments of distinct declarations can be told apart even when only the
	// opening fragment carries the id and name.
	ToolCallIndex int

	// ToolCallID identifies a function-call declaration. Only set on the
	// fragment that opens the declaration (UnitToolCallDelta).
	ToolCallID string

	// ToolName is the declared function name. Only set on the opening fragment.
	ToolName string

	// ArgsDelta is a fragment of the JSON argument text (UnitToolCallDelta).
	ArgsDelta string

	// FinishReason is the backend's stop reason (UnitDone).
	// Values: "stop", "length", "tool_calls", "content_filter".
	FinishReason string

	// Err is the stream failure (UnitError).
	Err error
}
