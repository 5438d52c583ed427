package agent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/pestaway/voiceagent/dispatch"
	"github.com/pestaway/voiceagent/logger"
	metrics "github.com/pestaway/voiceagent/metrics/prometheus"
	"github.com/pestaway/voiceagent/providers"
	"github.com/pestaway/voiceagent/types"
)

// turnState is the explicit state of the per-turn stream machine.
type turnState int

const (
	// stateStreamingText forwards text deltas as partial events.
	stateStreamingText turnState = iota

	// stateAccumulatingCall buffers argument fragments of the active
	// function-call declaration. Text units are suppressed in this state.
	stateAccumulatingCall

	// stateDispatching executes the finalized call and emits the terminal event.
	stateDispatching

	// stateDone stops consuming stream units.
	stateDone
)

// TurnEvent is one outbound unit for the channel. One or more partial events
// (ContentComplete=false) may precede exactly one terminal event per turn; an
// event with EndCall=true is the last event of the session.
type TurnEvent struct {
	ResponseID      int
	Content         string
	ContentComplete bool
	EndCall         bool
}

// EventSink receives turn events strictly in emission order.
type EventSink interface {
	Emit(TurnEvent) error
}

// TurnResult reports what one handled turn produced.
type TurnResult struct {
	// Outcome is set when a function call was dispatched this turn.
	Outcome *FunctionOutcome

	// EndCall is true when the session must terminate after this turn.
	EndCall bool
}

// Orchestrator drives one conversational turn at a time: it opens a streaming
// backend call, forwards text deltas, detects and accumulates a mid-stream
// function-call declaration, dispatches it, and emits the terminal event.
//
// At most one function call is acted upon per turn; later declarations in the
// same stream are silently ignored. Every handled turn ends with exactly one
// terminal event, including internal failure paths.
type Orchestrator struct {
	provider    providers.Provider
	dispatcher  *dispatch.Dispatcher
	temperature float32
	maxTokens   int
}

// NewOrchestrator creates an orchestrator over the given backend and dispatcher.
func NewOrchestrator(provider providers.Provider, dispatcher *dispatch.Dispatcher, temperature float32, maxTokens int) *Orchestrator {
	return &Orchestrator{
		provider:    provider,
		dispatcher:  dispatcher,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// turn carries the mutable state of one RunTurn invocation.
type turn struct {
	req          TurnRequest
	sink         EventSink
	state        turnState
	call         types.MessageToolCall
	callIndex    int
	argsBuf      strings.Builder
	terminalSent bool
	result       TurnResult
}

// RunTurn handles one inbound turn. The summary is the session-scoped contact
// summary; prev is the previous turn's function outcome when resuming after a
// dispatch. The context bounds the whole turn: stream consumption stops when
// it is canceled.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest, summary string, prev *FunctionOutcome, sink EventSink) TurnResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages := BuildMessages(summary, req.Transcript, prev, req.Reminder)
	tools := dispatch.ToolDefs()

	logger.LLMCall(o.provider.ID(), req.ResponseID, len(messages), len(tools))

	units, err := o.provider.StreamChat(ctx, providers.ChatRequest{
		Messages:    messages,
		Tools:       tools,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	if err != nil {
		logger.LLMError(o.provider.ID(), req.ResponseID, err)
		metrics.RecordStreamFailure()
		t := &turn{req: req, sink: sink}
		t.emitTerminal(streamFallback)
		return t.result
	}

	t := &turn{req: req, sink: sink, state: stateStreamingText}

	for unit := range units {
		switch t.state {
		case stateStreamingText:
			o.onStreamingText(t, unit)
		case stateAccumulatingCall:
			o.onAccumulatingCall(ctx, t, unit)
		case stateDispatching, stateDone:
			// Stop consuming; cancel tears down the provider stream.
		}

		if t.state == stateDone {
			break
		}
	}

	// The stream can end without a terminal unit (e.g. an abrupt close while
	// still streaming text). The end-of-turn contract still holds: exactly one
	// terminal event per handled turn.
	if !t.terminalSent {
		t.emitTerminal("")
	}

	return t.result
}

// onStreamingText handles a unit in the initial text-forwarding state.
func (o *Orchestrator) onStreamingText(t *turn, unit providers.StreamUnit) {
	switch unit.Kind {
	case providers.UnitText:
		t.emitPartial(unit.Delta)

	case providers.UnitToolCallDelta:
		// The opening fragment carries the call identity. Some backends omit
		// the id; synthesize one so the result can reference the call.
		t.call = types.MessageToolCall{ID: unit.ToolCallID, Name: unit.ToolName}
		t.callIndex = unit.ToolCallIndex
		if t.call.ID == "" {
			t.call.ID = uuid.NewString()
		}
		t.argsBuf.WriteString(unit.ArgsDelta)
		t.state = stateAccumulatingCall
		logger.Debug("function call declared",
			"response_id", t.req.ResponseID, "function", t.call.Name, "call_id", t.call.ID)

	case providers.UnitDone:
		t.emitTerminal("")
		t.state = stateDone

	case providers.UnitError:
		logger.LLMError(o.provider.ID(), t.req.ResponseID, unit.Err)
		metrics.RecordStreamFailure()
		t.emitTerminal(streamFallback)
		t.state = stateDone
	}
}

// onAccumulatingCall handles a unit while a function-call declaration is open.
func (o *Orchestrator) onAccumulatingCall(ctx context.Context, t *turn, unit providers.StreamUnit) {
	switch unit.Kind {
	case providers.UnitToolCallDelta:
		if unit.ToolCallID != "" || unit.ToolName != "" {
			// A second declaration. Only one function call is handled per
			// turn; ignore it rather than double-dispatch.
			metrics.RecordIgnoredCall()
			logger.Warn("ignoring additional function call in turn",
				"response_id", t.req.ResponseID, "function", unit.ToolName)
			return
		}
		if unit.ToolCallIndex != t.callIndex {
			// Argument fragment of an ignored declaration. Dropping it keeps
			// the active call's buffer intact.
			return
		}
		t.argsBuf.WriteString(unit.ArgsDelta)

	case providers.UnitText:
		// Text after a recognized call is suppressed for the rest of the turn.

	default:
		// Anything else signals the declaration is complete.
		o.finalizeCall(ctx, t)
	}
}

// finalizeCall parses the accumulated arguments, dispatches the call, and
// emits the terminal event (plus the session-ending farewell for end-call).
func (o *Orchestrator) finalizeCall(ctx context.Context, t *turn) {
	t.state = stateDispatching

	raw := t.argsBuf.String()
	if raw == "" {
		raw = "{}"
	}
	if !json.Valid([]byte(raw)) {
		// A truncated or malformed buffer is a local failure: the function is
		// not invoked and the turn still terminates with a completion event.
		logger.Warn("function call arguments are not valid JSON",
			"response_id", t.req.ResponseID, "function", t.call.Name, "call_id", t.call.ID)
		t.emitTerminal(dispatchFallback)
		t.state = stateDone
		return
	}
	t.call.Args = json.RawMessage(raw)

	result := o.dispatcher.Dispatch(ctx, t.call)
	content := SpeakResult(result)

	t.emitTerminal(content)
	t.result.Outcome = &FunctionOutcome{Call: t.call, Result: content}

	if result.Function == dispatch.FunctionEndCall {
		t.emit(TurnEvent{
			ResponseID:      t.req.ResponseID,
			Content:         farewellMessage,
			ContentComplete: true,
			EndCall:         true,
		})
		t.result.EndCall = true
	}

	t.state = stateDone
}

// emitPartial sends a non-terminal content event.
func (t *turn) emitPartial(delta string) {
	t.emit(TurnEvent{
		ResponseID: t.req.ResponseID,
		Content:    delta,
	})
}

// emitTerminal sends the turn's single terminal event, at most once.
func (t *turn) emitTerminal(content string) {
	if t.terminalSent {
		return
	}
	t.terminalSent = true
	t.emit(TurnEvent{
		ResponseID:      t.req.ResponseID,
		Content:         content,
		ContentComplete: true,
	})
}

func (t *turn) emit(event TurnEvent) {
	if err := t.sink.Emit(event); err != nil {
		logger.Warn("failed to emit outbound event",
			"response_id", event.ResponseID, "error", err)
		t.state = stateDone
	}
}
