package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/neviim/mcppatrimonio/pkg/config"
)

// Maximum accepted size of one stdio request line.
const maxLineBytes = 4 * 1024 * 1024

// Server implements the MCP server. It owns the tool and resource
// registries and serves requests over stdio or through the HTTP gateway.
type Server struct {
	cfg    config.Config
	logger *slog.Logger

	Tools     *ToolRegistry
	Resources *ResourceRegistry

	mu        sync.Mutex
	connected bool
}

// NewServer creates an MCP server with empty registries.
func NewServer(cfg config.Config, logger *slog.Logger) (server *Server) {
	server = &Server{
		cfg:    cfg,
		logger: logger,
	}
	server.Tools = NewToolRegistry(server, logger)
	server.Resources = NewResourceRegistry(logger)

	return server
}

// Connect marks the server connected. Connecting twice logs a warning and is
// otherwise a no-op.
func (s *Server) Connect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		s.logger.Warn("server already connected")
		return
	}

	s.connected = true
	s.logger.Info("server connected",
		slog.String("name", AppName),
		slog.String("version", AppVersion))
}

// Disconnect marks the server disconnected. Disconnecting while not connected
// logs a warning and is otherwise a no-op.
func (s *Server) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		s.logger.Warn("server not connected")
		return
	}

	s.connected = false
	s.logger.Info("server disconnected")
}

// Connected reports the connection state.
func (s *Server) Connected() (connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	connected = s.connected
	return connected
}

// Run serves MCP requests over stdio: one JSON request per stdin line, one
// JSON response per stdout line. Logs go to the slog handler (stderr), never
// to stdout. Run returns when stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) (err error) {
	err = s.Serve(ctx, os.Stdin, os.Stdout)
	return err
}

// Serve is Run with injectable streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	s.Connect()
	defer s.Disconnect()

	s.logger.InfoContext(ctx, "MCP server started", slog.String("transport", "stdio"))

	var writeMu sync.Mutex

	send := func(msg interface{}) {
		data, marshalErr := json.Marshal(msg)
		if marshalErr != nil {
			s.logger.ErrorContext(ctx, "failed to marshal outgoing message", slog.String("error", marshalErr.Error()))
			return
		}

		writeMu.Lock()
		defer writeMu.Unlock()
		fmt.Fprintln(out, string(data))
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var request MCPRequest

		err = json.Unmarshal(line, &request)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to parse request", slog.String("error", err.Error()))
			err = nil
			continue
		}

		response := s.HandleRequest(ctx, request, send)
		if response != nil {
			send(*response)
		}
	}

	err = scanner.Err()
	if err != nil {
		err = fmt.Errorf("reading requests: %w", err)
		return err
	}

	return err
}

// HandleRequest processes one MCP request and returns its response. Both
// transports funnel through here; send carries server-initiated notifications
// back on the same channel the request arrived on.
func (s *Server) HandleRequest(ctx context.Context, req MCPRequest, send SendFunc) (response *MCPResponse) {
	switch req.Method {
	case "initialize":
		response = s.handleInitialize(req)

	case "ping":
		response = &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}

	case "tools/list":
		response = s.handleListTools(req)

	case "tools/call":
		response = s.handleToolCall(ctx, req, send)

	case "resources/list":
		response = s.handleListResources(req)

	default:
		s.logger.WarnContext(ctx, "unknown method", slog.String("method", req.Method))
		response = &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}

	return response
}

// handleInitialize answers the MCP handshake with the server identity and
// capabilities.
func (s *Server) handleInitialize(req MCPRequest) (response *MCPResponse) {
	response = &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
				"logging":   map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    AppName,
				"version": AppVersion,
			},
		},
	}
	return response
}

// handleListTools returns every registered tool definition.
func (s *Server) handleListTools(req MCPRequest) (response *MCPResponse) {
	defs := s.Tools.Definitions()
	if defs == nil {
		defs = []MCPTool{}
	}

	response = &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": defs,
		},
	}
	return response
}

// handleListResources returns every registered resource.
func (s *Server) handleListResources(req MCPRequest) (response *MCPResponse) {
	resources := s.Resources.List()
	if resources == nil {
		resources = []MCPResource{}
	}

	response = &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"resources": resources,
		},
	}
	return response
}

// handleToolCall dispatches a tool invocation. Tool failures come back as a
// successful JSON-RPC response with an isError envelope, not a protocol
// error; only malformed params produce -32602.
func (s *Server) handleToolCall(ctx context.Context, req MCPRequest, send SendFunc) (response *MCPResponse) {
	var params MCPToolCallParams

	paramsJSON, _ := json.Marshal(req.Params)

	err := json.Unmarshal(paramsJSON, &params)
	if err != nil || params.Name == "" {
		response = &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32602,
				Message: "Invalid params: tool name is required",
			},
		}
		return response
	}

	var args interface{}
	if params.Arguments != nil {
		args = map[string]interface{}(params.Arguments)
	}

	result := s.Tools.Dispatch(ctx, params.Name, args, send)

	response = &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
	return response
}
