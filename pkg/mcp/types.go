package mcp

import "time"

// Application identity.
const (
	AppName        = "neviim"
	AppVersion     = "0.2.0"
	AppDescription = "Servidor MCP para gestão de patrimônio - homeLab Jads"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      interface{}            `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// MCPResponse represents an MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCPNotification represents a server-initiated JSON-RPC notification.
type MCPNotification struct {
	JSONRPC string                 `json:"jsonrpc"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// MCPTool is the wire definition of a tool.
type MCPTool struct {
	Name        string                 `json:"name"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// MCPToolCallParams represents parameters for a tool call.
type MCPToolCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ContentBlock is one element of a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the uniform output envelope. Every tool invocation produces
// exactly one ToolResult; the pipeline never lets a failure escape to the
// transport as anything else.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// RequestContext carries the per-invocation upstream identity. It is built
// fresh for every tool invocation and never shared.
type RequestContext struct {
	BaseURL   string
	Token     string
	Timestamp time.Time
	RequestID string
}

// LogFunc is the per-invocation logging callback. Severity is one of debug,
// info, warn, error; the registry remaps warn to "warning" for the wire.
type LogFunc func(level, message string, context map[string]interface{})

// ExecutionContext is the per-invocation composite handed to tool handlers.
type ExecutionContext struct {
	Server   *Server
	Request  RequestContext
	LogEntry LogFunc
}

// log forwards to the context's logging callback, tolerating a nil callback.
func (ec *ExecutionContext) log(level, message string, context map[string]interface{}) {
	if ec == nil || ec.LogEntry == nil {
		return
	}
	ec.LogEntry(level, message, context)
}
