package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is read once at startup and treated as read-only afterwards.
type Config struct {
	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL      string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIBetaHeader   string `envconfig:"OPENAI_BETA_HEADER" default:"assistants=v2"`
	OpenAIOrganization string `envconfig:"OPENAI_ORGANIZATION"`

	ServerName    string   `envconfig:"MCP_SERVER_NAME" default:"vectorstore-mcp"`
	ServerVersion string   `envconfig:"MCP_SERVER_VERSION" default:"1.0.0"`
	Transport     string   `envconfig:"MCP_TRANSPORT" default:"stdio"`
	Port          string   `envconfig:"PORT" default:"8081"`
	MCPPath       string   `envconfig:"MCP_PATH" default:"/mcp"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"*"`

	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"30s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// Load reads the process environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := Process()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Process reads the process environment into a Config without validating
// it, so callers can apply overrides before calling Validate.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unsupported MCP_TRANSPORT %q (want %q or %q)", c.Transport, TransportStdio, TransportHTTP)
	}

	u, err := url.Parse(c.OpenAIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid OPENAI_BASE_URL %q", c.OpenAIBaseURL)
	}
	c.OpenAIBaseURL = strings.TrimRight(c.OpenAIBaseURL, "/")

	if !strings.HasPrefix(c.MCPPath, "/") {
		c.MCPPath = "/" + c.MCPPath
	}
	return nil
}

// RequireAPIKey is checked by commands that talk to the upstream API.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// ZerologLevel maps LOG_LEVEL to a zerolog level, defaulting to info.
func (c *Config) ZerologLevel() zerolog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
