package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("openapi-bridge version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server          ServerConfig   `mapstructure:"server"`
	Logging         LoggingConfig  `mapstructure:"logging"`
	Endpoint        EndpointConfig `mapstructure:"endpoint"`
	AdjustmentsFile string         `mapstructure:"adjustments_file"`
}

// EndpointConfig describes the REST service whose OpenAPI document is
// discovered at runtime and whose operations are exposed as tools.
type EndpointConfig struct {
	// BaseURL is the scheme://host[:port] of the target service.
	BaseURL string `json:"base_url" mapstructure:"base_url"`
	// ContextPath is an optional URL prefix the service is mounted under,
	// e.g. a servlet context like "/csi-api/empi-api/api".
	ContextPath string `json:"context_path" mapstructure:"context_path"`
	// OpenAPIPath is the path of the OpenAPI document below the context.
	OpenAPIPath string `json:"openapi_path" mapstructure:"openapi_path"`
	// OpenAPIFullURL, when set, is used verbatim and overrides
	// BaseURL/ContextPath/OpenAPIPath for spec discovery.
	OpenAPIFullURL string `json:"openapi_full_url" mapstructure:"openapi_full_url"`
	// Headers are default request headers, overridable per tool call.
	Headers map[string]string `json:"headers" mapstructure:"headers"`
	// RequestTimeout bounds every outbound HTTP request, spec fetches included.
	RequestTimeout time.Duration `json:"request_timeout" mapstructure:"request_timeout"`
}

type ServerMode string

const (
	ServerModeSSE   ServerMode = "sse"
	ServerModeSTDIO ServerMode = "stdio"
	ServerModeHTTP  ServerMode = "http"
)

type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	Host    string     `mapstructure:"host"`
	Mode    ServerMode `mapstructure:"mode"`
	Name    string     `mapstructure:"name"`
	Version string     `mapstructure:"version"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	Color             bool   `mapstructure:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

const (
	defaultOpenAPIPath    = "/v3/api-docs"
	defaultRequestTimeout = 30 * time.Second
)

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("mode", string(ServerModeSTDIO), "Server mode (stdio|sse|http)")
	pflag.String("adjustments-file", "", "Path to the tool adjustments file")
	// Note: no pflag.Parse() here as it's called in main.go
}

// bindEnvAliases wires the unprefixed environment variables used by earlier
// deployments of the bridge onto their config keys. For the tenancy headers
// the DEFAULT_-prefixed spelling wins over the bare one when both are set.
func bindEnvAliases() {
	_ = viper.BindEnv("endpoint.base_url", "API_BASE_URL")
	_ = viper.BindEnv("endpoint.context_path", "CONTEXT_PATH")
	_ = viper.BindEnv("endpoint.openapi_path", "OPENAPI_PATH")
	_ = viper.BindEnv("endpoint.openapi_full_url", "OPENAPI_FULL_URL")
	_ = viper.BindEnv("server.name", "SERVER_NAME")
	_ = viper.BindEnv("tenancy.group", "DEFAULT_X_GROUP", "X_GROUP")
	_ = viper.BindEnv("tenancy.hospital", "DEFAULT_X_HOSPITAL", "X_HOSPITAL")
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("OPENAPI_BRIDGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	bindEnvAliases()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	viper.SetDefault("server.name", "openapi-bridge")
	viper.SetDefault("server.version", "1.0.0")
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("endpoint.openapi_path", defaultOpenAPIPath)
	viper.SetDefault("endpoint.request_timeout", defaultRequestTimeout)

	// config.yaml is optional: an env-only setup is a fully valid deployment
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/openapi-bridge")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Set server mode from flag
	if mode := viper.GetString("mode"); mode != "" {
		switch ServerMode(mode) {
		case ServerModeSSE, ServerModeSTDIO, ServerModeHTTP:
			config.Server.Mode = ServerMode(mode)
		}
	}

	// Set adjustments file from flag or environment
	if adjustmentsFile := viper.GetString("adjustments-file"); adjustmentsFile != "" {
		config.AdjustmentsFile = adjustmentsFile
	}

	// Fold the tenancy defaults into the header map so the request builder
	// sees them as ordinary default headers.
	if config.Endpoint.Headers == nil {
		config.Endpoint.Headers = make(map[string]string)
	}
	if group := viper.GetString("tenancy.group"); group != "" {
		config.Endpoint.Headers["X-Group"] = group
	}
	if hospital := viper.GetString("tenancy.hospital"); hospital != "" {
		config.Endpoint.Headers["X-Hospital"] = hospital
	}

	if config.Endpoint.RequestTimeout <= 0 {
		config.Endpoint.RequestTimeout = defaultRequestTimeout
	}

	if config.Endpoint.BaseURL == "" && config.Endpoint.OpenAPIFullURL == "" {
		return nil, fmt.Errorf("endpoint base URL is required, set endpoint.base_url in the config or the API_BASE_URL environment variable")
	}

	return &config, nil
}
