package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var pathParamPattern = regexp.MustCompile(`\{([^/{}]+)\}`)

// HTTPRequestBuilder assembles one HTTP request from a route configuration
// and the caller-supplied arguments. It performs no I/O.
type HTTPRequestBuilder struct {
	baseURL        string
	defaultHeaders map[string]string
	routeConfig    *RouteConfig
}

// NewHTTPRequestBuilder creates a builder for one route against the given
// base URL (target base plus resolved context path).
func NewHTTPRequestBuilder(baseURL string, defaultHeaders map[string]string, routeConfig *RouteConfig) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		baseURL:        strings.TrimRight(baseURL, "/"),
		defaultHeaders: defaultHeaders,
		routeConfig:    routeConfig,
	}
}

// BuildRequest builds a fully formed request from the call arguments.
// Argument validation failures (missing path parameter, unmarshalable
// body) are reported here, before any network call is made.
func (b *HTTPRequestBuilder) BuildRequest(ctx context.Context, params map[string]interface{}) (*Request, error) {
	if b.routeConfig == nil {
		return nil, fmt.Errorf("route config is nil")
	}

	path, err := b.substitutePathParams(b.routeConfig.Path, params)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(b.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}
	b.addQueryParams(u, params)

	body, contentType, err := b.createRequestBody(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	headers := EffectiveHeaders(b.defaultHeaders, b.routeConfig.Headers, params, b.routeConfig.MethodConfig.HeaderParams)

	httpReq, err := http.NewRequestWithContext(ctx, b.routeConfig.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return &Request{
		URL:         u.String(),
		Method:      b.routeConfig.Method,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
		HttpRequest: httpReq,
	}, nil
}

// substitutePathParams replaces every {name} placeholder with the
// URL-escaped argument value.
func (b *HTTPRequestBuilder) substitutePathParams(path string, params map[string]interface{}) (string, error) {
	var missing error
	substituted := pathParamPattern.ReplaceAllStringFunc(path, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := params[name]
		if !ok {
			if missing == nil {
				missing = &MissingPathParameterError{Name: name}
			}
			return match
		}
		return url.PathEscape(fmt.Sprintf("%v", value))
	})
	if missing != nil {
		return "", missing
	}
	return substituted, nil
}

// addQueryParams appends each declared query parameter present in the
// arguments. Arrays serialize as repeated keys unless the parameter is
// declared comma-separated.
func (b *HTTPRequestBuilder) addQueryParams(u *url.URL, params map[string]interface{}) {
	q := u.Query()
	for _, qp := range b.routeConfig.MethodConfig.QueryParams {
		value, ok := params[qp.Name]
		if !ok {
			continue
		}
		values := stringifyValues(value)
		if qp.CommaSeparated && len(values) > 1 {
			q.Add(qp.Name, strings.Join(values, ","))
			continue
		}
		for _, v := range values {
			q.Add(qp.Name, v)
		}
	}
	u.RawQuery = q.Encode()
}

func stringifyValues(value interface{}) []string {
	switch vv := value.(type) {
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case []string:
		return vv
	default:
		return []string{fmt.Sprintf("%v", value)}
	}
}

// createRequestBody serializes the "body" argument as JSON when present.
func (b *HTTPRequestBuilder) createRequestBody(params map[string]interface{}) (io.Reader, string, error) {
	body, ok := params["body"]
	if !ok {
		return nil, "", nil
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(jsonData), "application/json", nil
}
