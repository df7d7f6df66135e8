// Package server provides the MCP server that exposes the translated
// tool set over STDIO, SSE or streamable HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/dispatcher"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/server/handler"
	"github.com/carelink/openapi-bridge/internal/server/tool"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second

	// reloadToolName is the management tool that re-runs discovery and
	// swaps the tool registry.
	reloadToolName = "reload_openapi_spec"
)

// Server hosts the MCP endpoint. The tool set mirrors the dispatcher
// registry and is refreshed after every reload.
type Server struct {
	config     *config.Config
	dispatcher *dispatcher.Dispatcher
	mcp        *mcpserver.MCPServer
	handler    *handler.Handler
	tool       *tool.Handler

	mu         sync.Mutex
	registered map[string]bool
}

// NewServer creates a new MCP server instance. Tools are registered on
// Start, after the first successful document load.
func NewServer(cfg *config.Config, d *dispatcher.Dispatcher) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if d == nil {
		logger.Fatal("Dispatcher cannot be nil")
	}

	mcpServer := mcpserver.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
	)

	srv := &Server{
		config:     cfg,
		dispatcher: d,
		mcp:        mcpServer,
		handler:    handler.NewHandler(d),
		tool:       tool.NewHandler(d),
		registered: make(map[string]bool),
	}
	srv.registerReloadTool()
	return srv
}

func (s *Server) registerReloadTool() {
	reloadTool := mcp.NewTool(reloadToolName,
		mcp.WithDescription("Re-fetch the OpenAPI document from the target service and rebuild the tool set"),
	)
	s.mcp.AddTool(reloadTool, s.handleReload)
}

func (s *Server) handleReload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.dispatcher.Reload(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reload failed: %v", err)), nil
	}
	s.syncTools()

	summary, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reload summary: %w", err)
	}
	return mcp.NewToolResultText(string(summary)), nil
}

// syncTools mirrors the dispatcher registry onto the MCP server:
// current tools are (re)registered, tools gone from the registry are
// deleted. The management tool is never touched.
func (s *Server) syncTools() {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	for _, routeTool := range s.dispatcher.Tools() {
		name := routeTool.Tool.Name
		seen[name] = true
		s.mcp.AddTool(routeTool.Tool, s.tool.CreateHandler(name))
	}

	var stale []string
	for name := range s.registered {
		if !seen[name] {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		logger.Info("removing stale tools", zap.Strings("tools", stale))
		s.mcp.DeleteTools(stale...)
	}
	s.registered = seen
}

func (s *Server) ServeSSE(ctx context.Context) error {
	logger.Info("Starting SSE server")

	sseServer := mcpserver.NewSSEServer(
		s.mcp,
		mcpserver.WithBaseURL(fmt.Sprintf("http://%s:%d", s.config.Server.Host, s.config.Server.Port)),
	)

	return s.serveHTTP(ctx, sseServer, "SSE")
}

func (s *Server) ServeHTTP(ctx context.Context) error {
	logger.Info("Starting HTTP server")
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return s.serveHTTP(ctx, httpServer, "HTTP")
}

func (s *Server) serveHTTP(ctx context.Context, mcpHandler http.Handler, mode string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: s.handler.CreateHTTPHandler(mcpHandler),
	}

	errChan := make(chan error, 1)

	go func() {
		logger.Info("Starting server",
			zap.String("mode", mode),
			zap.String("address", addr),
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server",
			zap.String("mode", mode),
			zap.Duration("timeout", shutdownTimeout),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

func (s *Server) ServeSTDIO(ctx context.Context) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// Start performs the initial document load, registers the resulting
// tools and serves in the configured mode until the context is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting server",
		zap.String("mode", string(s.config.Server.Mode)),
		zap.String("version", s.config.Server.Version),
	)

	if _, err := s.dispatcher.Reload(ctx); err != nil {
		return fmt.Errorf("initial OpenAPI load failed: %w", err)
	}
	s.syncTools()

	switch s.config.Server.Mode {
	case config.ServerModeSSE:
		return s.ServeSSE(ctx)
	case config.ServerModeHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerModeSTDIO:
		return s.ServeSTDIO(ctx)
	default:
		return fmt.Errorf("unsupported server mode: %s", s.config.Server.Mode)
	}
}

// Module provides the MCP server dependencies
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
	),
)
