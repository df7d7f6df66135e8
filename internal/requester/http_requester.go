package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HTTPRequester executes built requests against the target service.
type HTTPRequester struct {
	client         *http.Client
	defaultHeaders map[string]string
}

// NewHTTPRequester creates a new HTTPRequester bounded by the configured
// request timeout.
func NewHTTPRequester(cfg *config.Config) *HTTPRequester {
	return &HTTPRequester{
		client: &http.Client{
			Timeout: cfg.Endpoint.RequestTimeout,
		},
		defaultHeaders: cfg.Endpoint.Headers,
	}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// BuildRouteExecutor creates a function that builds and executes requests
// for one route against the given base URL. The base URL carries the
// resolved context path, so executors are created per registry snapshot.
func (r *HTTPRequester) BuildRouteExecutor(baseURL string, route *RouteConfig) RouteExecutor {
	return func(ctx context.Context, params map[string]interface{}) (*Response, error) {
		builder := NewHTTPRequestBuilder(baseURL, r.defaultHeaders, route)
		req, err := builder.BuildRequest(ctx, params)
		if err != nil {
			return nil, err
		}
		logger.Debug("executing request",
			zap.String("method", req.Method),
			zap.String("url", req.URL))

		resp, err := r.execute(req)
		if err != nil {
			logger.Error("failed to execute request", zap.Error(err))
			return nil, err
		}
		return resp, nil
	}
}

// execute performs the actual HTTP request execution
func (r *HTTPRequester) execute(req *Request) (*Response, error) {
	resp, err := r.client.Do(req.HttpRequest)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		Headers:    resp.Header,
	}, nil
}

// Module provides the requester module dependencies
var Module = fx.Options(
	fx.Provide(
		NewHTTPRequester,
	),
)
