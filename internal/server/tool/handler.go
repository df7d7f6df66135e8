// Package tool provides tool handling functionality for the MCP server.
package tool

import (
	"context"
	"fmt"
	"net/http"

	"github.com/carelink/openapi-bridge/internal/dispatcher"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Handler turns tool calls into dispatcher calls and HTTP responses
// into tool results.
type Handler struct {
	dispatcher *dispatcher.Dispatcher
}

// NewHandler creates a new tool handler.
func NewHandler(d *dispatcher.Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

// CreateHandler creates a handler function for the named tool. The name
// is resolved against the dispatcher registry per call, so a reload
// between registration and invocation is picked up transparently.
//
// A response from the target service is always a tool result, whatever
// its status code. Only failures to produce a response at all (bad
// arguments, transport errors, unknown tool) become error results.
func (h *Handler) CreateHandler(name string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := request.GetArguments()
		logger.Debug("tool call", zap.String("tool", name))

		resp, err := h.dispatcher.Call(ctx, name, params)
		if err != nil {
			logger.Warn("tool call failed",
				zap.String("tool", name),
				zap.Error(err))
			return mcp.NewToolResultError(fmt.Sprintf("request failed: %v", err)), nil
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return mcp.NewToolResultText(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(resp.Body))), nil
		}
		return mcp.NewToolResultText(string(resp.Body)), nil
	}
}
