package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

// SendFunc delivers a server-initiated message (logging notification) to the
// transport that carried the triggering request.
type SendFunc func(msg interface{})

// ToolRegistry owns the set of registered tools and dispatches execution
// requests by name. It is owned by one Server instance, never ambient-global,
// so tests can run independent registries.
type ToolRegistry struct {
	server *Server
	logger *slog.Logger
	tools  map[string]*Tool
	order  []string
}

// NewToolRegistry creates an empty registry bound to its owning server.
func NewToolRegistry(server *Server, logger *slog.Logger) (registry *ToolRegistry) {
	registry = &ToolRegistry{
		server: server,
		logger: logger,
		tools:  map[string]*Tool{},
	}
	return registry
}

// Register inserts a tool by name. Registering a name that already exists
// overwrites the prior entry with a warning, not an error.
func (r *ToolRegistry) Register(tool *Tool) {
	_, exists := r.tools[tool.Name]
	if exists {
		r.logger.Warn("tool already registered, overwriting", slog.String("tool", tool.Name))
	} else {
		r.order = append(r.order, tool.Name)
	}

	r.tools[tool.Name] = tool
	r.logger.Info("tool registered", slog.String("tool", tool.Name))
}

// RegisterAll registers every tool in sequence.
func (r *ToolRegistry) RegisterAll(tools []*Tool) {
	for _, tool := range tools {
		r.Register(tool)
	}
}

// Dispatch executes the named tool. An unregistered name fails closed with
// the error envelope before any request context is built. Otherwise a fresh
// RequestContext and ExecutionContext are assembled and the tool's pipeline
// runs; its result is returned verbatim.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, raw interface{}, send SendFunc) (result ToolResult) {
	tool, exists := r.tools[name]
	if !exists {
		r.logger.Error("tool not found", slog.String("tool", name))
		metrics.ToolExecutionsTotal.WithLabelValues(name, metrics.StatusError).Inc()
		result = ErrorResult(fmt.Sprintf("Erro: Ferramenta '%s' não encontrada", name))
		return result
	}

	requestCtx := RequestContext{
		BaseURL:   r.server.cfg.BaseURL,
		Token:     r.server.cfg.Token,
		Timestamp: time.Now(),
		RequestID: uuid.NewString(),
	}

	execCtx := &ExecutionContext{
		Server:   r.server,
		Request:  requestCtx,
		LogEntry: r.buildLogEntry(requestCtx.RequestID, send),
	}

	result = tool.Execute(ctx, raw, execCtx)
	return result
}

// buildLogEntry returns the invocation-bound logging callback. It forwards
// events as notifications/message on the request's transport, remapping warn
// to "warning" for the wire vocabulary and tagging every message with the
// request id.
func (r *ToolRegistry) buildLogEntry(requestID string, send SendFunc) (logEntry LogFunc) {
	logEntry = func(level, message string, logCtx map[string]interface{}) {
		wireLevel := level
		if wireLevel == "warn" {
			wireLevel = "warning"
		}

		if send == nil {
			return
		}

		send(MCPNotification{
			JSONRPC: "2.0",
			Method:  "notifications/message",
			Params: map[string]interface{}{
				"level": wireLevel,
				"data": map[string]interface{}{
					"message":   message,
					"context":   logCtx,
					"requestId": requestID,
				},
			},
		})
	}
	return logEntry
}

// Get returns a tool by name.
func (r *ToolRegistry) Get(name string) (tool *Tool, exists bool) {
	tool, exists = r.tools[name]
	return tool, exists
}

// Unregister removes a tool, reporting whether it was present.
func (r *ToolRegistry) Unregister(name string) (removed bool) {
	_, removed = r.tools[name]
	if removed {
		delete(r.tools, name)
		r.order = removeName(r.order, name)
		r.logger.Info("tool unregistered", slog.String("tool", name))
	}
	return removed
}

// List returns the registered tool names in registration order.
func (r *ToolRegistry) List() (names []string) {
	names = append(names, r.order...)
	return names
}

// Definitions returns the wire definitions in registration order.
func (r *ToolRegistry) Definitions() (defs []MCPTool) {
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Clear removes every tool. Used by tests only.
func (r *ToolRegistry) Clear() {
	r.tools = map[string]*Tool{}
	r.order = nil
	r.logger.Info("all tools unregistered")
}

// removeName drops one name from an ordered slice.
func removeName(names []string, name string) (out []string) {
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
