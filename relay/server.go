package relay

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pestaway/voiceagent/agent"
	"github.com/pestaway/voiceagent/logger"
)

// ProfileSource resolves an optional contact profile for a call before the
// session starts. A nil source or a nil payload means no profile is known.
type ProfileSource interface {
	Lookup(ctx context.Context, callID string) []byte
}

// Server accepts websocket connections from the conversational channel and
// runs one Session per connection.
type Server struct {
	orch     *agent.Orchestrator
	profiles ProfileSource
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer creates a server listening on addr. The profile source may be nil.
func NewServer(addr string, orch *agent.Orchestrator, profiles ProfileSource) *Server {
	s := &Server{
		orch:     orch,
		profiles: profiles,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The channel connects server-to-server; origin checks do not apply.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/llm-websocket/", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	logger.Info("relay server listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("relay server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// handleWebSocket upgrades the connection and runs the session to completion.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	callID := strings.TrimPrefix(r.URL.Path, "/llm-websocket/")
	if callID == "" || strings.Contains(callID, "/") {
		http.Error(w, "missing call id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "call_id", callID, "error", err)
		return
	}

	var profile []byte
	if s.profiles != nil {
		profile = s.profiles.Lookup(r.Context(), callID)
	}

	session := newSession(sessionID(callID), conn, s.orch, profile)
	session.Run(r.Context())
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// sessionID derives a stable session identifier from the call id, falling
// back to a random id for callers that connect without one.
func sessionID(callID string) string {
	if callID != "" {
		return callID
	}
	return uuid.NewString()
}
