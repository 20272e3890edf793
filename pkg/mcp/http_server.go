package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neviim/mcppatrimonio/pkg/config"
	"github.com/neviim/mcppatrimonio/pkg/mcp/auth"
)

// ServiceName identifies the gateway on its public endpoints.
const ServiceName = "MCP Patrimonio Server"

// HTTPServer is the HTTP transport gateway: it authenticates inbound
// requests, manages streaming MCP sessions, and exposes the public
// liveness and info endpoints.
type HTTPServer struct {
	server     *Server
	cfg        config.Config
	logger     *slog.Logger
	httpServer *http.Server
	sessions   *SessionRegistry
	authChain  *auth.Chain
}

// NewHTTPServer creates the gateway around an MCP server. authChain may be
// nil to disable authentication entirely.
func NewHTTPServer(mcpServer *Server, cfg config.Config, authChain *auth.Chain, logger *slog.Logger) (gateway *HTTPServer) {
	gateway = &HTTPServer{
		server:    mcpServer,
		cfg:       cfg,
		logger:    logger,
		sessions:  NewSessionRegistry(logger),
		authChain: authChain,
	}

	router := chi.NewRouter()
	router.Use(gateway.recoverMiddleware)

	if cfg.EnableCORS {
		router.Use(corsMiddleware(cfg.CORSOrigins))
	}

	router.Get("/health", gateway.handleHealth)
	router.Get("/info", gateway.handleInfo)

	router.Group(func(r chi.Router) {
		if authChain != nil {
			r.Use(auth.Middleware(authChain, logger))
		}

		r.Post("/mcp/session", gateway.handleCreateSession)
		r.Post("/mcp/message/{sessionID}", gateway.handleMessage)
		r.Get("/mcp/sessions", gateway.handleListSessions)
		r.Delete("/mcp/session/{sessionID}", gateway.handleDeleteSession)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Not Found",
			"message": "Endpoint not found",
		})
	})

	gateway.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gateway
}

// Start runs the gateway until the listener fails or Shutdown is called.
func (h *HTTPServer) Start(ctx context.Context) (err error) {
	h.logger.InfoContext(ctx, "starting MCP HTTP server", slog.String("addr", h.httpServer.Addr))

	err = h.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}

	err = nil
	return err
}

// Shutdown force-closes every active session and stops the listener.
func (h *HTTPServer) Shutdown(ctx context.Context) (err error) {
	h.logger.InfoContext(ctx, "shutting down MCP HTTP server")

	h.sessions.CloseAll()

	err = h.httpServer.Shutdown(ctx)
	return err
}

// Sessions exposes the session registry.
func (h *HTTPServer) Sessions() (registry *SessionRegistry) {
	registry = h.sessions
	return registry
}

// Handler exposes the gateway's router. Used by tests.
func (h *HTTPServer) Handler() (handler http.Handler) {
	handler = h.httpServer.Handler
	return handler
}

// handleHealth answers the public liveness check.
func (h *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"transport": "streamable-http",
	})
}

// handleInfo answers the public server description.
func (h *HTTPServer) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":      ServiceName,
		"version":   AppVersion,
		"transport": "streamable-http",
		"capabilities": map[string]bool{
			"tools":     true,
			"resources": true,
			"prompts":   false,
		},
	})
}

// handleCreateSession opens a streaming session: the response stays open and
// carries one JSON document per line, starting with the session announcement.
// The session ends when the client disconnects or the server closes it.
func (h *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal Server Error",
			"message": "Streaming not supported",
		})
		return
	}

	sess := h.sessions.Create()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Mcp-Session-Id", sess.ID)
	w.WriteHeader(http.StatusOK)

	announce, _ := json.Marshal(map[string]string{
		"sessionId": sess.ID,
		"status":    "open",
	})
	fmt.Fprintf(w, "%s\n", announce)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			h.sessions.Remove(sess.ID)
			return

		case <-sess.done:
			return

		case data := <-sess.outbound:
			_, writeErr := fmt.Fprintf(w, "%s\n", data)
			if writeErr != nil {
				h.logger.Error("failed to write session message",
					slog.String("session_id", sess.ID),
					slog.String("error", writeErr.Error()))
				h.sessions.Remove(sess.ID)
				return
			}
			flusher.Flush()
		}
	}
}

// handleMessage routes one MCP request to an existing session. The JSON-RPC
// response travels back on the session stream; this endpoint only
// acknowledges acceptance.
func (h *HTTPServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, exists := h.sessions.Get(sessionID)
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Not Found",
			"message": "Session not found or expired",
		})
		return
	}

	if sess.Closed() {
		h.sessions.Remove(sessionID)
		writeJSON(w, http.StatusGone, map[string]string{
			"error":   "Gone",
			"message": "Session has been closed",
		})
		return
	}

	var request MCPRequest

	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "Bad Request",
			"message": "Invalid JSON",
		})
		return
	}

	h.logger.Info("received MCP request",
		slog.String("session_id", sessionID),
		slog.String("method", request.Method),
		slog.Any("id", request.ID))

	go func() {
		response := h.server.HandleRequest(context.Background(), request, func(msg interface{}) {
			_ = sess.Send(msg)
		})
		if response != nil {
			sendErr := sess.Send(*response)
			if sendErr != nil {
				h.logger.Warn("dropping response for closed session",
					slog.String("session_id", sessionID))
			}
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":    "accepted",
		"sessionId": sessionID,
	})
}

// handleListSessions lists session ids with their liveness flag.
func (h *HTTPServer) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	states := h.sessions.List()
	if states == nil {
		states = []SessionState{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(states),
		"sessions": states,
	})
}

// handleDeleteSession explicitly terminates a session.
func (h *HTTPServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	removed := h.sessions.Remove(sessionID)
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "Not Found",
			"message": "Session not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "closed",
		"sessionId": sessionID,
	})
}

// recoverMiddleware converts handler panics into the JSON 500 body.
func (h *HTTPServer) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic in HTTP handler",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec))
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "Internal Server Error",
					"message": fmt.Sprintf("%v", rec),
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers for the configured origins and answers
// preflight requests.
func corsMiddleware(origins []string) (middleware func(http.Handler) http.Handler) {
	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}

	middleware = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && containsOrigin(origins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
	return middleware
}

// containsOrigin reports whether origin matches one of the allowed origins.
func containsOrigin(origins []string, origin string) (found bool) {
	for _, o := range origins {
		if strings.EqualFold(o, origin) {
			found = true
			return found
		}
	}
	return found
}

// writeJSON renders v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
