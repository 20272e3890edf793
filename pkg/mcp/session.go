package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

// ErrSessionClosed is returned by Send after a session has been closed.
var ErrSessionClosed = errors.New("session is closed")

// Per-session outbound buffer size.
const sessionBufferSize = 100

// Session is one streaming MCP exchange over HTTP. The creating request
// holds the response stream open and drains the outbound channel; every
// other goroutine interacts with the session only through Send and Close.
type Session struct {
	ID        string
	CreatedAt time.Time

	outbound chan []byte
	done     chan struct{}

	mu     sync.Mutex
	closed bool
}

// newSession creates an open session with a fresh uuid.
func newSession() (sess *Session) {
	sess = &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		outbound:  make(chan []byte, sessionBufferSize),
		done:      make(chan struct{}),
	}
	return sess
}

// Send queues one message for delivery on the session's response stream.
// Sending on a closed session returns ErrSessionClosed and the message is
// discarded.
func (s *Session) Send(msg interface{}) (err error) {
	data, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		err = fmt.Errorf("marshaling session message: %w", marshalErr)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		err = ErrSessionClosed
		return err
	}

	select {
	case s.outbound <- data:
	default:
		err = errors.New("session buffer full")
	}

	return err
}

// Close marks the session closed and wakes its streaming goroutine. Closing
// twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.done)
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() (closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed = s.closed
	return closed
}

// SessionRegistry tracks the active streaming sessions of the HTTP gateway.
type SessionRegistry struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry(logger *slog.Logger) (registry *SessionRegistry) {
	registry = &SessionRegistry{
		logger:   logger,
		sessions: map[string]*Session{},
	}
	return registry
}

// Create registers a fresh session and returns it.
func (r *SessionRegistry) Create() (sess *Session) {
	sess = newSession()

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	total := len(r.sessions)
	r.mu.Unlock()

	metrics.SessionsCreatedTotal.Inc()
	metrics.ActiveSessions.Set(float64(total))

	r.logger.Info("MCP session created",
		slog.String("session_id", sess.ID),
		slog.Int("total_sessions", total))

	return sess
}

// Get returns a session by id.
func (r *SessionRegistry) Get(id string) (sess *Session, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, exists = r.sessions[id]
	return sess, exists
}

// Remove closes and deregisters a session, reporting whether it was present.
func (r *SessionRegistry) Remove(id string) (removed bool) {
	r.mu.Lock()
	sess, exists := r.sessions[id]
	if exists {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()

	if !exists {
		return removed
	}

	sess.Close()
	removed = true

	metrics.ActiveSessions.Set(float64(total))
	r.logger.Info("MCP session closed", slog.String("session_id", id))

	return removed
}

// SessionState is one entry of the sessions listing.
type SessionState struct {
	SessionID string `json:"sessionId"`
	Active    bool   `json:"active"`
}

// List returns the state of every registered session.
func (r *SessionRegistry) List() (states []SessionState) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, sess := range r.sessions {
		states = append(states, SessionState{SessionID: id, Active: !sess.Closed()})
	}
	return states
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() (count int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count = len(r.sessions)
	return count
}

// CloseAll force-closes every session. Called on gateway shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}

	metrics.ActiveSessions.Set(0)

	if len(sessions) > 0 {
		r.logger.Info("all MCP sessions closed", slog.Int("count", len(sessions)))
	}
}
