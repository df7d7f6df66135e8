package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/dispatcher"
	"github.com/carelink/openapi-bridge/internal/fetcher"
	"github.com/carelink/openapi-bridge/internal/parser"
	"github.com/carelink/openapi-bridge/internal/requester"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerSpec = `{
	"openapi": "3.0.0",
	"info": {"title": "Inventory", "version": "1.0.0"},
	"paths": {
		"/items/{itemId}": {
			"get": {
				"operationId": "getItem",
				"parameters": [
					{"name": "itemId", "in": "path", "required": true, "schema": {"type": "string"}}
				],
				"responses": {"200": {"description": "ok"}}
			}
		}
	}
}`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/api-docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, handlerSpec)
	})
	mux.HandleFunc("/items/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/items/missing" {
			http.Error(w, `{"message":"no such item"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"42","name":"widget"}`)
	})
	target := httptest.NewServer(mux)
	t.Cleanup(target.Close)

	cfg := &config.Config{
		Endpoint: config.EndpointConfig{
			BaseURL:        target.URL,
			OpenAPIPath:    "/v3/api-docs",
			RequestTimeout: 5 * time.Second,
		},
	}
	d := dispatcher.NewDispatcher(cfg,
		fetcher.NewFetcher(cfg),
		parser.NewToolBuilder(parser.NewAdjuster()),
		requester.NewHTTPRequester(cfg))
	_, err := d.Reload(context.Background())
	require.NoError(t, err)

	return NewHandler(d)
}

func callTool(t *testing.T, h *Handler, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := h.CreateHandler(name)(context.Background(), request)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandler_SuccessReturnsBody(t *testing.T) {
	h := newTestHandler(t)
	result := callTool(t, h, "getItem", map[string]interface{}{"itemId": "42"})

	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"id":"42","name":"widget"}`, textOf(t, result))
}

func TestHandler_NonSuccessStatusIsStillAResult(t *testing.T) {
	h := newTestHandler(t)
	result := callTool(t, h, "getItem", map[string]interface{}{"itemId": "missing"})

	assert.False(t, result.IsError, "a response from the service is a result, not a protocol error")
	assert.Contains(t, textOf(t, result), "HTTP 404")
	assert.Contains(t, textOf(t, result), "no such item")
}

func TestHandler_MissingArgumentIsErrorResult(t *testing.T) {
	h := newTestHandler(t)
	result := callTool(t, h, "getItem", map[string]interface{}{})

	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "itemId")
}

func TestHandler_UnknownToolIsErrorResult(t *testing.T) {
	h := newTestHandler(t)
	result := callTool(t, h, "nopeTool", nil)

	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), "unknown tool")
}
