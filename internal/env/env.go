// Package env resolves the runtime environment the binaries run in.
package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/voicestudio/internal/envvar"
)

// Environment is the deployment environment.
type Environment string

const (
	// Development enables colored debug logging and config reload on every access.
	Development Environment = "development"

	// Production enables JSON logging and a config snapshot read once at startup.
	Production Environment = "production"
)

// FromEnv reads the environment from VOICESTUDIO_ENV. Anything other than
// "production" (or "prod") is treated as development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.VoicestudioEnv))
}

// Parse converts a free-form environment name into an Environment.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// IsDevelopment reports whether e is the development environment.
func (e Environment) IsDevelopment() bool {
	return e == Development
}
