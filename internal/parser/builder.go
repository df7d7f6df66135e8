package parser

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/carelink/openapi-bridge/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// methodOrder fixes the traversal order within a path item, so the
// outcome of duplicate operationId resolution never depends on map
// iteration order.
var methodOrder = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

var pathTemplatePattern = regexp.MustCompile(`\{([^/{}]+)\}`)

// ToolBuilder converts an OpenAPI document into MCP route tools, one per
// operation, named by operationId.
type ToolBuilder struct {
	adjuster *Adjuster
}

// NewToolBuilder creates a new ToolBuilder instance
func NewToolBuilder(adjuster *Adjuster) *ToolBuilder {
	return &ToolBuilder{adjuster: adjuster}
}

// Build walks paths in sorted order and methods in methodOrder.
// Operations without an operationId and operations with unresolved
// references are skipped with a warning. When two operations share an
// operationId the one visited later replaces the earlier.
func (b *ToolBuilder) Build(doc *openapi3.T) []*RouteTool {
	if doc == nil || doc.Paths == nil {
		return nil
	}

	pathMap := doc.Paths.Map()
	paths := make([]string, 0, len(pathMap))
	for path := range pathMap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	byName := make(map[string]*RouteTool)
	order := make([]string, 0, len(pathMap))

	for _, path := range paths {
		item := pathMap[path]
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			if op.OperationID == "" {
				logger.Warn("skipping operation without operationId",
					zap.String("path", path),
					zap.String("method", method))
				continue
			}
			if !b.adjuster.IncludesRoute(path, method) {
				continue
			}

			routeTool, err := b.buildRouteTool(path, method, op)
			if err != nil {
				logger.Warn("skipping operation",
					zap.String("operation_id", op.OperationID),
					zap.String("path", path),
					zap.String("method", method),
					zap.Error(err))
				continue
			}

			if _, dup := byName[op.OperationID]; dup {
				logger.Warn("duplicate operationId, later operation wins",
					zap.String("operation_id", op.OperationID),
					zap.String("path", path),
					zap.String("method", method))
				order = dropName(order, op.OperationID)
			}
			byName[op.OperationID] = routeTool
			order = append(order, op.OperationID)
		}
	}

	tools := make([]*RouteTool, 0, len(order))
	for _, name := range order {
		tools = append(tools, byName[name])
	}
	return tools
}

// buildRouteTool assembles the route configuration and tool schema for a
// single operation.
func (b *ToolBuilder) buildRouteTool(path, method string, op *openapi3.Operation) (*RouteTool, error) {
	desc := op.Description
	if desc == "" {
		desc = op.Summary
	}
	if desc == "" {
		desc = fmt.Sprintf("%s %s", method, path)
	}
	desc = b.adjuster.GetDescription(path, method, desc)

	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	methodConfig := requester.MethodConfig{}
	declaredPath := make(map[string]bool)

	for _, ref := range op.Parameters {
		param := ref.Value
		if param == nil {
			return nil, fmt.Errorf("unresolved parameter reference %q", ref.Ref)
		}
		if param.Schema != nil && param.Schema.Value == nil {
			return nil, fmt.Errorf("unresolved schema reference %q for parameter %q", param.Schema.Ref, param.Name)
		}

		switch param.In {
		case openapi3.ParameterInPath:
			declaredPath[param.Name] = true
			// Path parameters are always required, whatever the document says.
			opts = append(opts, paramToMCPOption(param, true))
		case openapi3.ParameterInQuery:
			opts = append(opts, paramToMCPOption(param, param.Required))
			methodConfig.QueryParams = append(methodConfig.QueryParams, requester.QueryParam{
				Name:           param.Name,
				CommaSeparated: commaSeparated(param),
			})
		case openapi3.ParameterInHeader:
			// Tenancy headers are satisfied by configured defaults, so the
			// schema never demands them from the caller.
			required := param.Required && !requester.IsTenancyHeader(param.Name)
			opts = append(opts, paramToMCPOption(param, required))
			methodConfig.HeaderParams = append(methodConfig.HeaderParams, param.Name)
		default:
			logger.Debug("ignoring parameter location",
				zap.String("name", param.Name),
				zap.String("in", param.In))
		}
	}

	// Placeholders in the path template that no parameter declares still
	// have to be filled in, so surface them as required strings.
	for _, name := range extractPathParams(path) {
		if !declaredPath[name] {
			opts = append(opts, mcp.WithString(name,
				mcp.Required(),
				mcp.Description(fmt.Sprintf("Path parameter: %s", name)),
			))
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		schema, err := pickBodySchema(op.RequestBody.Value)
		if err != nil {
			return nil, err
		}
		if schema != nil || len(op.RequestBody.Value.Content) > 0 {
			opts = append(opts, bodyToMCPOption(schema, op.RequestBody.Value.Required))
		}
	}

	routeConfig := &requester.RouteConfig{
		Path:        path,
		Method:      method,
		Description: desc,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		MethodConfig: methodConfig,
	}
	if accept := pickAccept(op); accept != "" {
		routeConfig.Headers["Accept"] = accept
	}

	return &RouteTool{
		RouteConfig: routeConfig,
		Tool:        mcp.NewTool(op.OperationID, opts...),
	}, nil
}

// pickBodySchema selects the request body schema: application/json when
// present, otherwise the lexicographically first media type with a schema.
func pickBodySchema(body *openapi3.RequestBody) (*openapi3.SchemaRef, error) {
	content := body.Content
	if len(content) == 0 {
		return nil, nil
	}

	if mediaType, ok := content["application/json"]; ok && mediaType.Schema != nil {
		return checkResolved(mediaType.Schema)
	}

	types := make([]string, 0, len(content))
	for contentType := range content {
		types = append(types, contentType)
	}
	sort.Strings(types)
	for _, contentType := range types {
		if mediaType := content[contentType]; mediaType != nil && mediaType.Schema != nil {
			return checkResolved(mediaType.Schema)
		}
	}
	return nil, nil
}

func checkResolved(schema *openapi3.SchemaRef) (*openapi3.SchemaRef, error) {
	if schema.Value == nil {
		return nil, fmt.Errorf("unresolved schema reference %q", schema.Ref)
	}
	return schema, nil
}

// pickAccept picks the Accept header from the documented responses,
// preferring application/json, traversing deterministically.
func pickAccept(op *openapi3.Operation) string {
	if op.Responses == nil {
		return ""
	}
	responseMap := op.Responses.Map()
	codes := make([]string, 0, len(responseMap))
	for code := range responseMap {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		response := responseMap[code]
		if response == nil || response.Value == nil || len(response.Value.Content) == 0 {
			continue
		}
		if _, ok := response.Value.Content["application/json"]; ok {
			return "application/json"
		}
		types := make([]string, 0, len(response.Value.Content))
		for contentType := range response.Value.Content {
			types = append(types, contentType)
		}
		sort.Strings(types)
		return types[0]
	}
	return ""
}

// commaSeparated reports whether an array query parameter serializes as a
// single comma-joined value (style=form with explode=false). The default
// is repeated keys.
func commaSeparated(param *openapi3.Parameter) bool {
	return param.Style == "form" && param.Explode != nil && !*param.Explode
}

// extractPathParams lists the {name} placeholders of a path template.
func extractPathParams(path string) []string {
	matches := pathTemplatePattern.FindAllStringSubmatch(path, -1)
	params := make([]string, 0, len(matches))
	for _, match := range matches {
		params = append(params, match[1])
	}
	return params
}

func dropName(order []string, name string) []string {
	out := order[:0]
	for _, n := range order {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
