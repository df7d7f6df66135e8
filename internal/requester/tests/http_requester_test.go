package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carelink/openapi-bridge/internal/config"
	"github.com/carelink/openapi-bridge/internal/requester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequester(headers map[string]string) *requester.HTTPRequester {
	return requester.NewHTTPRequester(&config.Config{
		Endpoint: config.EndpointConfig{
			Headers:        headers,
			RequestTimeout: 5 * time.Second,
		},
	})
}

func TestHTTPRequester_Execute(t *testing.T) {
	var gotPath, gotGroup string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotGroup = r.Header.Get("X-Group")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	execute := newRequester(map[string]string{"X-Group": "grp-1"}).BuildRouteExecutor(server.URL, &requester.RouteConfig{
		Path:   "/items/{itemId}",
		Method: "GET",
	})

	resp, err := execute(context.Background(), map[string]interface{}{"itemId": "42"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/items/42", gotPath)
	assert.Equal(t, "grp-1", gotGroup)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body))
}

func TestHTTPRequester_PostBody(t *testing.T) {
	var gotBody map[string]interface{}
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	execute := newRequester(nil).BuildRouteExecutor(server.URL, &requester.RouteConfig{
		Path:   "/items",
		Method: "POST",
	})

	resp, err := execute(context.Background(), map[string]interface{}{
		"body": map[string]interface{}{"name": "widget"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "widget", gotBody["name"])
}

func TestHTTPRequester_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	execute := newRequester(nil).BuildRouteExecutor(server.URL, &requester.RouteConfig{
		Path:   "/items/{itemId}",
		Method: "GET",
	})

	resp, err := execute(context.Background(), map[string]interface{}{"itemId": "missing"})
	require.NoError(t, err, "a response from the service is never a transport error")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "not found")
}

func TestHTTPRequester_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	execute := newRequester(nil).BuildRouteExecutor(server.URL, &requester.RouteConfig{
		Path:   "/items",
		Method: "GET",
	})

	_, err := execute(context.Background(), nil)
	assert.Error(t, err)
}

func TestHTTPRequester_ContextCancellation(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	execute := newRequester(nil).BuildRouteExecutor(server.URL, &requester.RouteConfig{
		Path:   "/items",
		Method: "GET",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := execute(ctx, nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
