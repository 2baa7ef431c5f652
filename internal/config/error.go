package config

import "errors"

// Error definitions for the config package.
var (
	ErrMissingAPIKey  = errors.New("config: provider api key is required (set ELEVENLABS_API_KEY)")
	ErrInvalidLatency = errors.New("config: optimize_streaming_latency must be 0, 1 or 2")
	ErrInvalidMode    = errors.New("config: unknown reload mode")
	ErrNoConfigFile   = errors.New("config: watch mode requires a config file")
)
