package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresEndpoint(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://svc.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://svc.local", cfg.Endpoint.BaseURL)
	assert.Equal(t, "/v3/api-docs", cfg.Endpoint.OpenAPIPath)
	assert.Equal(t, 30*time.Second, cfg.Endpoint.RequestTimeout)
	assert.Equal(t, "openapi-bridge", cfg.Server.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_LegacyEnvAliases(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://svc.local")
	t.Setenv("CONTEXT_PATH", "/csi-api/empi-api/api")
	t.Setenv("OPENAPI_PATH", "/v2/api-docs")
	t.Setenv("SERVER_NAME", "empi-bridge")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/csi-api/empi-api/api", cfg.Endpoint.ContextPath)
	assert.Equal(t, "/v2/api-docs", cfg.Endpoint.OpenAPIPath)
	assert.Equal(t, "empi-bridge", cfg.Server.Name)
}

func TestLoad_TenancyDefaultsBecomeHeaders(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://svc.local")
	t.Setenv("X_GROUP", "grp-bare")
	t.Setenv("DEFAULT_X_GROUP", "grp-default")
	t.Setenv("X_HOSPITAL", "hosp-1")

	cfg, err := Load()
	require.NoError(t, err)

	// The DEFAULT_-prefixed spelling wins when both are set.
	assert.Equal(t, "grp-default", cfg.Endpoint.Headers["X-Group"])
	assert.Equal(t, "hosp-1", cfg.Endpoint.Headers["X-Hospital"])
}

func TestLoad_FullURLAloneIsEnough(t *testing.T) {
	t.Setenv("OPENAPI_FULL_URL", "http://svc.local/v3/api-docs")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://svc.local/v3/api-docs", cfg.Endpoint.OpenAPIFullURL)
	assert.Empty(t, cfg.Endpoint.BaseURL)
}
