package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/fetcher"
	"github.com/carelink/openapi-bridge/internal/locator"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/parser"
	"github.com/carelink/openapi-bridge/internal/requester"
	"go.uber.org/zap"
)

// ErrUnknownTool is returned by Call for tool names absent from the
// current registry.
var ErrUnknownTool = errors.New("unknown tool")

// ErrNotLoaded is returned by Call before the first successful Reload.
var ErrNotLoaded = errors.New("no OpenAPI document loaded")

// registry is one immutable snapshot of the translated tool set. Calls
// in flight keep using the snapshot they started with while Reload swaps
// in a new one.
type registry struct {
	tools       map[string]*parser.RouteTool
	order       []string
	baseURL     string
	specURL     string
	contextPath string
}

// ReloadResult summarizes one successful reload.
type ReloadResult struct {
	SpecURL     string
	ContextPath string
	ToolCount   int
	Added       []string
	Removed     []string
}

// Dispatcher owns the live tool registry: it discovers and fetches the
// OpenAPI document, builds tools from it, and routes tool calls to the
// target service. Reload replaces the registry atomically.
type Dispatcher struct {
	cfg       *config.Config
	fetcher   *fetcher.Fetcher
	builder   parser.Builder
	requester *requester.HTTPRequester

	current atomic.Pointer[registry]
}

// NewDispatcher creates a Dispatcher. No document is loaded until the
// first Reload.
func NewDispatcher(cfg *config.Config, f *fetcher.Fetcher, b parser.Builder, r *requester.HTTPRequester) *Dispatcher {
	return &Dispatcher{
		cfg:       cfg,
		fetcher:   f,
		builder:   b,
		requester: r,
	}
}

// Reload discovers, fetches and translates the OpenAPI document, then
// swaps the registry in one atomic store. On failure the previous
// registry stays in place untouched. Concurrent reloads are safe; the
// last writer wins.
func (d *Dispatcher) Reload(ctx context.Context) (*ReloadResult, error) {
	candidates := locator.Resolve(locator.Config{
		BaseURL:     d.cfg.Endpoint.BaseURL,
		ContextPath: d.cfg.Endpoint.ContextPath,
		OpenAPIPath: d.cfg.Endpoint.OpenAPIPath,
		FullURL:     d.cfg.Endpoint.OpenAPIFullURL,
	})

	result, err := d.fetcher.Fetch(ctx, candidates)
	if err != nil {
		return nil, err
	}

	tools := d.builder.Build(result.Doc)
	next := &registry{
		tools:       make(map[string]*parser.RouteTool, len(tools)),
		order:       make([]string, 0, len(tools)),
		baseURL:     d.requestBaseURL(result.ContextPath),
		specURL:     result.URL,
		contextPath: result.ContextPath,
	}
	for _, tool := range tools {
		next.tools[tool.Tool.Name] = tool
		next.order = append(next.order, tool.Tool.Name)
	}

	prev := d.current.Swap(next)

	summary := &ReloadResult{
		SpecURL:     next.specURL,
		ContextPath: next.contextPath,
		ToolCount:   len(next.order),
	}
	summary.Added, summary.Removed = diffNames(prev, next)

	logger.Info("tool registry reloaded",
		zap.String("spec_url", summary.SpecURL),
		zap.String("context_path", summary.ContextPath),
		zap.Int("tools", summary.ToolCount),
		zap.Int("added", len(summary.Added)),
		zap.Int("removed", len(summary.Removed)))

	return summary, nil
}

// requestBaseURL is the base for outgoing requests: the configured base
// plus the context path the document was discovered under. With only a
// full document URL configured, the base is that URL minus the document
// path suffix.
func (d *Dispatcher) requestBaseURL(contextPath string) string {
	if d.cfg.Endpoint.BaseURL != "" {
		return locator.JoinURL(d.cfg.Endpoint.BaseURL, contextPath)
	}
	base := strings.TrimSuffix(d.cfg.Endpoint.OpenAPIFullURL, "/")
	suffix := "/" + strings.Trim(d.cfg.Endpoint.OpenAPIPath, "/")
	return strings.TrimSuffix(base, suffix)
}

// Tools returns the current tool set in registry order. Empty before the
// first successful Reload.
func (d *Dispatcher) Tools() []*parser.RouteTool {
	reg := d.current.Load()
	if reg == nil {
		return nil
	}
	tools := make([]*parser.RouteTool, 0, len(reg.order))
	for _, name := range reg.order {
		tools = append(tools, reg.tools[name])
	}
	return tools
}

// Call executes the named tool with the given arguments against the
// target service. The registry snapshot is captured once, so a
// concurrent reload cannot change the route mid-call.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) (*requester.Response, error) {
	reg := d.current.Load()
	if reg == nil {
		return nil, ErrNotLoaded
	}
	routeTool, ok := reg.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	execute := d.requester.BuildRouteExecutor(reg.baseURL, routeTool.RouteConfig)
	return execute(ctx, args)
}

// SpecURL returns the URL the current document was fetched from, empty
// before the first successful Reload.
func (d *Dispatcher) SpecURL() string {
	if reg := d.current.Load(); reg != nil {
		return reg.specURL
	}
	return ""
}

func diffNames(prev, next *registry) (added, removed []string) {
	if prev == nil {
		added = append(added, next.order...)
		sort.Strings(added)
		return added, nil
	}
	for name := range next.tools {
		if _, ok := prev.tools[name]; !ok {
			added = append(added, name)
		}
	}
	for name := range prev.tools {
		if _, ok := next.tools[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
