package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSpec = `{
	"openapi": "3.0.0",
	"info": {"title": "Test API", "version": "1.0.0"},
	"paths": {
		"/items": {
			"get": {
				"operationId": "listItems",
				"summary": "List items"
			}
		}
	}
}`

func newTestFetcher() *Fetcher {
	return NewFetcher(&config.Config{
		Endpoint: config.EndpointConfig{RequestTimeout: 2 * time.Second},
	})
}

func TestFetch_FirstCandidateWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v3/api-docs" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(minimalSpec))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), []locator.Candidate{
		{URL: srv.URL + "/v3/api-docs", ContextPath: ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "", res.ContextPath)
	assert.Equal(t, srv.URL+"/v3/api-docs", res.URL)
	require.NotNil(t, res.Doc.Paths.Find("/items"))
}

func TestFetch_FallsBackInOrder(t *testing.T) {
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if r.URL.Path == "/api/v3/api-docs" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(minimalSpec))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	candidates := locator.Resolve(locator.Config{
		BaseURL:     srv.URL,
		OpenAPIPath: "/v3/api-docs",
	})

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), candidates)
	require.NoError(t, err)

	// First guess (no context) must have been tried before the /api guess.
	assert.Equal(t, []string{"/v3/api-docs", "/api/v3/api-docs"}, requested)
	assert.Equal(t, "api", res.ContextPath)
}

func TestFetch_AllCandidatesFail(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := newTestFetcher()
	_, err := f.Fetch(context.Background(), []locator.Candidate{
		{URL: srv.URL + "/v3/api-docs"},
		{URL: srv.URL + "/api/v3/api-docs"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpecUnavailable)
}

func TestFetch_NonJSONBodyIsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/html" {
			_, _ = w.Write([]byte("<html>not a spec</html>"))
			return
		}
		_, _ = w.Write([]byte(minimalSpec))
	}))
	defer srv.Close()

	f := newTestFetcher()
	res, err := f.Fetch(context.Background(), []locator.Candidate{
		{URL: srv.URL + "/html", ContextPath: ""},
		{URL: srv.URL + "/spec", ContextPath: "api"},
	})
	require.NoError(t, err)
	assert.Equal(t, "api", res.ContextPath)
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "valid OpenAPI 3.0",
			input: minimalSpec,
		},
		{
			name: "valid Swagger 2.0 is converted",
			input: `{
				"swagger": "2.0",
				"info": {"title": "Test API", "version": "1.0.0"},
				"paths": {"/test": {"get": {"operationId": "getTest", "responses": {"200": {"description": "OK"}}}}}
			}`,
		},
		{
			name:    "invalid JSON",
			input:   `{"openapi": "3.0.0",}`,
			wantErr: "invalid JSON in OpenAPI spec",
		},
		{
			name:    "missing version fields",
			input:   `{"info": {"title": "x"}}`,
			wantErr: "missing 'swagger' or 'openapi' version field",
		},
		{
			name:    "unsupported swagger version",
			input:   `{"swagger": "1.0"}`,
			wantErr: "unsupported Swagger version",
		},
		{
			name:    "unsupported openapi version",
			input:   `{"openapi": "4.0.0"}`,
			wantErr: "unsupported OpenAPI version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, doc)
		})
	}
}
