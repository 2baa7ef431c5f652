package config

import (
	"fmt"
	"strings"

	"github.com/ekisa-team/voicestudio/internal/env"
)

// Mode selects how often the configuration file is read.
type Mode string

const (
	// ModeStatic reads the configuration once at startup.
	ModeStatic Mode = "static"

	// ModeReload re-reads and validates the configuration on every Snapshot.
	ModeReload Mode = "reload"

	// ModeWatch swaps the snapshot whenever the file is written.
	ModeWatch Mode = "watch"
)

// ParseMode converts a mode name into a Mode. An empty name selects the
// default for the environment: reload in development, static otherwise.
func ParseMode(s string, environment env.Environment) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		if environment.IsDevelopment() {
			return ModeReload, nil
		}
		return ModeStatic, nil
	case ModeStatic:
		return ModeStatic, nil
	case ModeReload:
		return ModeReload, nil
	case ModeWatch:
		return ModeWatch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Source hands out configuration snapshots.
type Source interface {
	Snapshot() (*Config, error)
}

// NewSource builds the Source for mode. The configuration is loaded once
// up front in every mode so that an invalid setup fails at startup.
func NewSource(mode Mode, path, schemaPath string) (Source, error) {
	switch mode {
	case ModeStatic:
		cfg, err := LoadAndValidate(path, schemaPath)
		if err != nil {
			return nil, err
		}
		return Static(cfg), nil

	case ModeReload:
		if _, err := LoadAndValidate(path, schemaPath); err != nil {
			return nil, err
		}
		return &reloadSource{path: path, schemaPath: schemaPath}, nil

	case ModeWatch:
		if path == "" {
			return nil, ErrNoConfigFile
		}
		return NewWatcher(path, schemaPath, nil)

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// Static returns a Source that always hands out cfg.
func Static(cfg *Config) Source {
	return staticSource{cfg: cfg}
}

type staticSource struct {
	cfg *Config
}

func (s staticSource) Snapshot() (*Config, error) {
	return s.cfg, nil
}

// reloadSource observes edits without a restart by reading the file each time.
type reloadSource struct {
	path       string
	schemaPath string
}

func (s *reloadSource) Snapshot() (*Config, error) {
	cfg, err := LoadAndValidate(s.path, s.schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: reload failed: %w", err)
	}
	return cfg, nil
}
