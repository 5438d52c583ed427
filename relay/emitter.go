package relay

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// defaultWriteWait is the write deadline for each outbound message.
const defaultWriteWait = 10 * time.Second

// Emitter serializes outbound events onto the websocket one at a time,
// preserving emission order. No batching, no reordering, no buffering beyond
// the single in-flight write. Writes are serialized with a mutex
// (gorilla/websocket requirement).
type Emitter struct {
	conn      *websocket.Conn
	writeWait time.Duration
	mu        sync.Mutex
}

// NewEmitter creates an emitter over an established websocket connection.
func NewEmitter(conn *websocket.Conn) *Emitter {
	return &Emitter{
		conn:      conn,
		writeWait: defaultWriteWait,
	}
}

// Emit JSON-encodes msg and writes it to the channel.
func (e *Emitter) Emit(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound event: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.conn.SetWriteDeadline(time.Now().Add(e.writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := e.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write outbound event: %w", err)
	}

	return nil
}

// Close writes a close frame and closes the connection.
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = e.conn.SetWriteDeadline(time.Now().Add(e.writeWait))
	_ = e.conn.WriteMessage(websocket.CloseMessage, closeMsg)

	return e.conn.Close()
}
