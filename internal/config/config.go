// Package config loads, validates and serves the voicestudio configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ekisa-team/voicestudio/internal/catalog"
)

// Config holds the main configuration for the application.
type Config struct {
	Version  string         `json:"version"  yaml:"version"`
	Server   ServerConfig   `json:"server"   yaml:"server"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Logging  LoggingConfig  `json:"logging"  yaml:"logging"`
}

// ServerConfig holds the proxy HTTP server settings.
type ServerConfig struct {
	HTTPPort       int      `json:"http_port"       yaml:"http_port"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	Streaming      bool     `json:"streaming"       yaml:"streaming"` // relay the provider stream instead of buffering
}

// ProviderConfig holds the ElevenLabs settings.
type ProviderConfig struct {
	APIKey                   string        `json:"api_key"                              yaml:"api_key"`
	BaseURL                  string        `json:"base_url"                             yaml:"base_url"`
	DefaultModelID           string        `json:"default_model_id"                     yaml:"default_model_id"`
	OutputFormat             string        `json:"output_format"                        yaml:"output_format"`
	OptimizeStreamingLatency *int          `json:"optimize_streaming_latency,omitempty" yaml:"optimize_streaming_latency,omitempty"`
	Timeout                  time.Duration `json:"timeout"                              yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"   yaml:"level"`
	File   string `json:"file"    yaml:"file"`
	ToFile bool   `json:"to_file" yaml:"to_file"`
}

// Default returns the configuration used for every field the file leaves unset.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			HTTPPort:       DefaultHTTPPort(),
			AllowedOrigins: []string{"*"},
			Streaming:      true,
		},
		Provider: ProviderConfig{
			BaseURL:        "https://api.elevenlabs.io/v1",
			DefaultModelID: catalog.DefaultModel,
			OutputFormat:   "mp3_44100_128",
			Timeout:        60 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "",
			File:  "logs/voicestudio.log",
		},
	}
}

// DefaultHTTPPort returns the default proxy port.
func DefaultHTTPPort() int {
	return 3000
}

// Validate checks the invariants the schema cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.Provider.OptimizeStreamingLatency != nil {
		if l := *c.Provider.OptimizeStreamingLatency; l < 0 || l > 2 {
			return fmt.Errorf("%w: got %d", ErrInvalidLatency, l)
		}
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid http port %d", c.Server.HTTPPort)
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("config: provider timeout must be positive, got %s", c.Provider.Timeout)
	}

	return nil
}

// Addr returns the listen address of the proxy server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.HTTPPort)
}
