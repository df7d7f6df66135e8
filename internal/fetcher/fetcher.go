// Package fetcher retrieves and parses the OpenAPI document from the
// target service, trying the locator's candidate URLs in order.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/locator"
	"github.com/carelink/openapi-bridge/internal/logger"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrSpecUnavailable is returned when every candidate URL failed. Fatal at
// startup; recoverable later through the reload_openapi_spec tool.
var ErrSpecUnavailable = errors.New("openapi spec unavailable")

// Result is a successfully fetched and parsed OpenAPI document together
// with the context path and URL that served it.
type Result struct {
	Doc         *openapi3.T
	ContextPath string
	URL         string
}

// Fetcher fetches OpenAPI documents with a bounded-time HTTP client.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher whose requests are bounded by the endpoint's
// configured request timeout.
func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Endpoint.RequestTimeout},
	}
}

// Fetch tries each candidate in order and returns the first document that
// answers 200 with parseable OpenAPI JSON. A failed candidate (non-200,
// network error, timeout, bad JSON) just advances to the next one.
func (f *Fetcher) Fetch(ctx context.Context, candidates []locator.Candidate) (*Result, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidate URLs", ErrSpecUnavailable)
	}

	var lastErr error
	for _, cand := range candidates {
		doc, err := f.fetchOne(ctx, cand.URL)
		if err != nil {
			logger.Debug("OpenAPI candidate failed",
				zap.String("url", cand.URL),
				zap.Error(err))
			lastErr = fmt.Errorf("%s: %w", cand.URL, err)
			continue
		}
		logger.Info("OpenAPI document loaded",
			zap.String("url", cand.URL),
			zap.String("context_path", cand.ContextPath))
		return &Result{Doc: doc, ContextPath: cand.ContextPath, URL: cand.URL}, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrSpecUnavailable, lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) (*openapi3.T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return ParseDocument(data)
}

// ParseDocument parses raw bytes as either an OpenAPI 3.x or a Swagger 2.0
// document, converting the latter to 3.x.
func ParseDocument(data []byte) (*openapi3.T, error) {
	// Unmarshal generically first to catch invalid JSON early and to read
	// the version marker.
	var jsonObj map[string]interface{}
	if err := json.Unmarshal(data, &jsonObj); err != nil {
		return nil, fmt.Errorf("invalid JSON in OpenAPI spec: %w", err)
	}

	swaggerVersion, hasSwagger := jsonObj["swagger"]
	openapiVersion, hasOpenAPI := jsonObj["openapi"]

	if !hasSwagger && !hasOpenAPI {
		return nil, fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	if hasSwagger {
		return convertOpenAPI2to3(data, swaggerVersion)
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: document is empty")
	}

	return doc, nil
}

func convertOpenAPI2to3(data []byte, swaggerVersion interface{}) (*openapi3.T, error) {
	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %v", swaggerVersion)
	}

	logger.Info("Detected OpenAPI 2.0 spec, converting to OpenAPI 3.0")
	convertedDoc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}

	return convertedDoc, nil
}

// Module provides the fetcher dependencies
var Module = fx.Module("fetcher",
	fx.Provide(NewFetcher),
)
