package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pestaway/voiceagent/agent"
	"github.com/pestaway/voiceagent/logger"
	metrics "github.com/pestaway/voiceagent/metrics/prometheus"
)

// Session owns one conversational channel connection for its full lifetime.
// All mutable session state (the contact summary, the last function outcome)
// is scoped here; nothing is shared across sessions. Turns are processed
// sequentially on the read loop, so at most one turn is in flight per session.
type Session struct {
	id      string
	conn    *websocket.Conn
	emitter *Emitter
	orch    *agent.Orchestrator

	// profile and summary are session-scoped, written at session start and
	// recomputed only when a new profile arrives.
	profile *agent.ContactProfile
	summary string

	// lastOutcome is the previous turn's function call and result, carried
	// into the next turn's prompt.
	lastOutcome *agent.FunctionOutcome
}

// newSession creates a session for an upgraded connection. The profile
// payload is optional; an absent or malformed profile yields an empty summary
// and a generic greeting.
func newSession(id string, conn *websocket.Conn, orch *agent.Orchestrator, profile []byte) *Session {
	s := &Session{
		id:      id,
		conn:    conn,
		emitter: NewEmitter(conn),
		orch:    orch,
	}
	s.applyProfile(profile)
	return s
}

// applyProfile rebuilds the contact summary from a profile payload.
// The session state only changes when the payload parses to a profile.
func (s *Session) applyProfile(payload []byte) bool {
	profile := agent.ParseProfile(payload)
	if profile == nil {
		return false
	}
	s.profile = profile
	s.summary = agent.BuildContactSummary(profile)
	return true
}

// Run drives the session until the channel disconnects or a turn ends the
// call. It blocks; the caller owns the connection's lifetime through ctx.
func (s *Session) Run(ctx context.Context) {
	metrics.RecordSessionStart()
	defer metrics.RecordSessionEnd()
	defer s.emitter.Close()

	logger.Info("session started", "session_id", s.id)

	if err := s.emitter.Emit(ConfigEvent{
		ResponseType: ResponseTypeConfig,
		Config: ConfigFields{
			AutoReconnect: true,
			CallDetails:   true,
		},
	}); err != nil {
		logger.Warn("failed to send config event", "session_id", s.id, "error", err)
		return
	}

	// Session-start greeting: always content_complete, never end_call.
	if err := s.emitter.Emit(OutboundEvent{
		ResponseType:    ResponseTypeResponse,
		ResponseID:      0,
		Content:         agent.Greeting(s.profile),
		ContentComplete: true,
	}); err != nil {
		logger.Warn("failed to send greeting", "session_id", s.id, "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("session context canceled", "session_id", s.id)
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Info("session closed by channel", "session_id", s.id)
			} else {
				logger.Warn("session read failed", "session_id", s.id, "error", err)
			}
			return
		}

		var event InboundEvent
		if err := json.Unmarshal(data, &event); err != nil {
			logger.Warn("ignoring unparsable inbound event", "session_id", s.id, "error", err)
			continue
		}

		if done := s.handleEvent(ctx, event); done {
			return
		}
	}
}

// handleEvent processes one inbound event. It returns true when the session
// must terminate.
func (s *Session) handleEvent(ctx context.Context, event InboundEvent) bool {
	switch event.InteractionType {
	case InteractionResponseRequired, InteractionReminderRequired:
		start := time.Now()
		result := s.orch.RunTurn(ctx, agent.TurnRequest{
			ResponseID: event.ResponseID,
			Transcript: event.Transcript,
			Reminder:   event.InteractionType == InteractionReminderRequired,
		}, s.summary, s.lastOutcome, &turnSink{emitter: s.emitter})
		metrics.RecordTurn(event.InteractionType, time.Since(start).Seconds())

		if result.Outcome != nil {
			s.lastOutcome = result.Outcome
		}
		if result.EndCall {
			logger.Info("session ended by agent", "session_id", s.id)
			return true
		}

	case InteractionPingPong:
		if err := s.emitter.Emit(PongEvent{
			ResponseType: ResponseTypePingPong,
			Timestamp:    event.Timestamp,
		}); err != nil {
			logger.Warn("failed to answer ping", "session_id", s.id, "error", err)
		}

	case InteractionCallDetails:
		if event.Call != nil && len(event.Call.Metadata) > 0 {
			if s.applyProfile(event.Call.Metadata) {
				logger.Debug("contact summary updated", "session_id", s.id)
			}
		}

	case InteractionUpdateOnly:
		logger.Debug("transcript update", "session_id", s.id, "turns", len(event.Transcript))

	default:
		// Unknown interaction types are ignored; no response is emitted.
		logger.Debug("ignoring inbound event", "session_id", s.id, "interaction_type", event.InteractionType)
	}

	return false
}

// turnSink adapts the emitter to the orchestrator's event contract.
type turnSink struct {
	emitter *Emitter
}

// Emit forwards one turn event onto the channel in protocol shape.
func (ts *turnSink) Emit(event agent.TurnEvent) error {
	return ts.emitter.Emit(OutboundEvent{
		ResponseType:    ResponseTypeResponse,
		ResponseID:      event.ResponseID,
		Content:         event.Content,
		ContentComplete: event.ContentComplete,
		EndCall:         event.EndCall,
	})
}
