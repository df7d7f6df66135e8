package requester

// RouteConfig holds the invocation shape of one API operation: everything
// the request builder needs besides the caller-supplied arguments.
type RouteConfig struct {
	Path        string            `json:"path"`
	Method      string            `json:"method"`
	Description string            `json:"description,omitempty"`
	Headers     map[string]string `json:"headers"`
	// Method specific configurations
	MethodConfig MethodConfig `json:"method_config"`
}

// MethodConfig holds per-operation parameter metadata
type MethodConfig struct {
	QueryParams []QueryParam `json:"query_params,omitempty"`

	// HeaderParams are parameters declared with location "header"; their
	// values may be supplied as top-level tool arguments.
	HeaderParams []string `json:"header_params,omitempty"`
}

// QueryParam describes one declared query parameter.
type QueryParam struct {
	Name string `json:"name"`
	// CommaSeparated selects joined serialization for array values
	// (style form, explode false); the default is one key per value.
	CommaSeparated bool `json:"comma_separated,omitempty"`
}
