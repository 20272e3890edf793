package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neviim/mcppatrimonio/pkg/apperr"
	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

// Handler is the tool-specific unit of work. It receives validated, typed
// parameters and returns the data to be serialized into the success
// envelope.
type Handler func(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error)

// Tool is a named, schema-described operation invokable through MCP.
// Descriptors are immutable after construction.
type Tool struct {
	Name        string
	Title       string
	Description string
	Schema      Schema

	handler Handler
}

// NewTool creates a tool descriptor.
func NewTool(name, title, description string, schema Schema, handler Handler) (tool *Tool) {
	tool = &Tool{
		Name:        name,
		Title:       title,
		Description: description,
		Schema:      schema,
		handler:     handler,
	}
	return tool
}

// Definition returns the wire definition of the tool.
func (t *Tool) Definition() (def MCPTool) {
	def = MCPTool{
		Name:        t.Name,
		Title:       t.Title,
		Description: t.Description,
		InputSchema: t.Schema.JSONSchema(),
	}
	return def
}

// Execute runs the fixed validate/log/invoke/envelope pipeline. It always
// returns exactly one ToolResult: no handler failure, panic included, ever
// escapes this method.
func (t *Tool) Execute(ctx context.Context, raw interface{}, ec *ExecutionContext) (result ToolResult) {
	validation := Validate(t.Schema, raw)
	if !validation.IsValid {
		ec.log("error", fmt.Sprintf("Validation failed for %s", t.Name), map[string]interface{}{
			"errors": validation.Errors,
		})

		metrics.ToolExecutionsTotal.WithLabelValues(t.Name, metrics.StatusError).Inc()
		result = ErrorResult(fmt.Sprintf("Erro de validação: %s", formatFieldErrors(validation.Errors)))
		return result
	}

	ec.log("info", fmt.Sprintf("Executing tool: %s", t.Name), map[string]interface{}{
		"params": validation.Data,
	})

	data, err := t.invoke(ctx, validation.Data, ec)
	if err != nil {
		t.logFailure(ec, err)
		metrics.ToolExecutionsTotal.WithLabelValues(t.Name, metrics.StatusError).Inc()
		result = ErrorResult(fmt.Sprintf("Erro: %s", err.Error()))
		return result
	}

	ec.log("info", fmt.Sprintf("Tool %s executed successfully", t.Name), nil)

	metrics.ToolExecutionsTotal.WithLabelValues(t.Name, metrics.StatusSuccess).Inc()
	result = SuccessResult(data)
	return result
}

// invoke calls the handler, converting a panic into an error. This is the
// last line of defense required by the envelope guarantee.
func (t *Tool) invoke(ctx context.Context, params map[string]interface{}, ec *ExecutionContext) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Newf("Erro inesperado: %v", r)
		}
	}()

	data, err = t.handler(ctx, params, ec)
	return data, err
}

// logFailure emits the error event, distinguishing operational apperr
// failures from bug-class ones.
func (t *Tool) logFailure(ec *ExecutionContext, err error) {
	logCtx := map[string]interface{}{}

	appErr, ok := apperr.As(err)
	if ok {
		logCtx["statusCode"] = appErr.StatusCode
		logCtx["isOperational"] = appErr.IsOperational
	} else {
		logCtx["isOperational"] = false
	}

	ec.log("error", fmt.Sprintf("Error executing tool %s: %s", t.Name, err.Error()), logCtx)
}

// SuccessResult wraps data in the success envelope: a single text block with
// the pretty-printed JSON serialization of the data.
func SuccessResult(data interface{}) (result ToolResult) {
	text, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		result = ErrorResult(fmt.Sprintf("Erro: falha ao serializar resposta: %s", err.Error()))
		return result
	}

	result = ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: string(text)},
		},
	}
	return result
}

// ErrorResult wraps a message in the error envelope.
func ErrorResult(message string) (result ToolResult) {
	result = ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: message},
		},
		IsError: true,
	}
	return result
}

// formatFieldErrors joins violated fields as "field: message" pairs.
func formatFieldErrors(errors []FieldError) (formatted string) {
	parts := make([]string, 0, len(errors))
	for _, fieldErr := range errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message))
	}
	formatted = strings.Join(parts, ", ")
	return formatted
}
