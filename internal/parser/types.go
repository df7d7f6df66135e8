package parser

import (
	"github.com/carelink/openapi-bridge/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// RouteTool combines a route configuration with its corresponding MCP tool.
// The tool name is the operation's operationId.
type RouteTool struct {
	RouteConfig *requester.RouteConfig
	Tool        mcp.Tool
}

// Builder converts a fetched OpenAPI document into route tools.
type Builder interface {
	// Build returns one RouteTool per usable operation, in canonical
	// document order. Malformed operations are skipped, never fatal.
	Build(doc *openapi3.T) []*RouteTool
}
