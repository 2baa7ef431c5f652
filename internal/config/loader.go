package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/ekisa-team/voicestudio/internal/envvar"
	"github.com/ekisa-team/voicestudio/internal/xfs"
)

//go:embed voicestudio.schema.json
var embeddedSchema []byte

const embeddedSchemaURL = "voicestudio.v1.schema.json"

// LoadAndValidate loads and validates the configuration.
//
// An empty path yields the defaults. An empty schemaPath selects the embedded
// schema. Environment overrides are applied after the file is parsed and
// before Validate runs.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(xfs.ExpandTilde(path))
		if err != nil {
			return nil, fmt.Errorf("config: failed to read config: %w", err)
		}

		if err := decode(data, schemaPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Provider.APIKey = resolveEnvRef(cfg.Provider.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode validates data against the schema and unmarshals it over cfg.
func decode(data []byte, schemaPath string, cfg *Config) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("config: invalid YAML: %w", err)
	}
	if raw == nil {
		return nil // empty file
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("config: failed to compile schema: %w", err)
	}

	doc, err := toJSONValue(raw)
	if err != nil {
		return fmt.Errorf("config: failed to normalize config: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}

	return nil
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath != "" {
		return jsonschema.Compile(xfs.ExpandTilde(schemaPath))
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(embeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
		return nil, err
	}
	return c.Compile(embeddedSchemaURL)
}

// toJSONValue round-trips a YAML document through encoding/json so the
// validator sees the same value types a JSON document would produce.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var out any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// applyEnv lets environment variables override file values.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(envvar.ElevenLabsAPIKey); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv(envvar.ElevenLabsModelID); v != "" {
		cfg.Provider.DefaultModelID = v
	}
	if v := os.Getenv(envvar.ElevenLabsOptimizeStreamingLatency); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidLatency, envvar.ElevenLabsOptimizeStreamingLatency, v)
		}
		cfg.Provider.OptimizeStreamingLatency = &l
	}
	if v := os.Getenv(envvar.VoicestudioServerHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s=%q: %w", envvar.VoicestudioServerHTTPPort, v, err)
		}
		cfg.Server.HTTPPort = port
	}

	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}
