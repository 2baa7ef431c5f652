package synthesis

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/mapsafe"
)

//go:embed request.schema.json
var requestSchema []byte

const requestSchemaURL = "synthesis-request.schema.json"

// fieldOrder decides which violation is reported when several fields are invalid.
var fieldOrder = []string{
	"text",
	"voiceId",
	"language",
	"stability",
	"similarityBoost",
	"styleExaggeration",
	"optimizeStreamingLatency",
	"modelId",
}

var fieldMessages = map[string]string{
	"text":                     "Text is required",
	"voiceId":                  "Please select a voice",
	"language":                 `Language must be a supported language code or "auto"`,
	"stability":                "Stability must be a number between 0 and 1",
	"similarityBoost":          "Similarity boost must be a number between 0 and 1",
	"styleExaggeration":        "Style exaggeration must be a number between 0 and 1",
	"optimizeStreamingLatency": "Optimize streaming latency must be 0, 1 or 2",
	"modelId":                  "Model must be a string",
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(requestSchemaURL, bytes.NewReader(requestSchema)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile(requestSchemaURL)
	})
	return compiled, compileErr
}

// Validate checks a decoded JSON payload and returns the typed request.
//
// defaultModel is the model the provider falls back to; it takes part in
// the text length bound through catalog.SelectModel and catalog.TextLimit.
// On failure the error is a *ValidationError for the first invalid field.
func Validate(payload any, defaultModel string) (*Request, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &ValidationError{Message: "Request body must be a JSON object"}
	}

	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("synthesis: failed to compile request schema: %w", err)
	}

	violations := map[string]string{}
	generic := false

	if err := s.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("synthesis: schema validation: %w", err)
		}
		for _, leaf := range leaves(ve) {
			fields := fieldsOf(leaf, obj)
			if len(fields) == 0 {
				generic = true
			}
			for _, f := range fields {
				violations[f] = fieldMessages[f]
			}
		}
	}

	req := &Request{}
	if _, bad := violations["text"]; !bad {
		req.Text = mapsafe.Get(obj, "text", "")
		if strings.TrimSpace(req.Text) == "" {
			violations["text"] = fieldMessages["text"]
		}
	}
	if _, bad := violations["voiceId"]; !bad {
		req.VoiceID = strings.TrimSpace(mapsafe.Get(obj, "voiceId", ""))
		if req.VoiceID == "" {
			violations["voiceId"] = fieldMessages["voiceId"]
		}
	}
	if _, bad := violations["language"]; !bad {
		req.Language = strings.TrimSpace(mapsafe.Get(obj, "language", ""))
		if req.Language != "" && req.Language != catalog.AutoDetect && !catalog.IsKnown(req.Language) {
			violations["language"] = fieldMessages["language"]
			req.Language = ""
		}
	}
	if _, bad := violations["modelId"]; !bad {
		req.ModelID = strings.TrimSpace(mapsafe.Get(obj, "modelId", ""))
	}
	req.Stability = optionalFloat(obj, "stability", violations)
	req.SimilarityBoost = optionalFloat(obj, "similarityBoost", violations)
	req.StyleExaggeration = optionalFloat(obj, "styleExaggeration", violations)
	if _, bad := violations["optimizeStreamingLatency"]; !bad {
		if v, ok := mapsafe.Lookup[int](obj, "optimizeStreamingLatency"); ok {
			req.OptimizeStreamingLatency = &v
		}
	}

	if _, bad := violations["text"]; !bad {
		model := catalog.SelectModel(req.Language, req.ModelID, defaultModel)
		if limit := catalog.TextLimit(model); utf8.RuneCountInString(req.Text) > limit {
			violations["text"] = fmt.Sprintf("Text must be at most %d characters", limit)
		}
	}

	for _, f := range fieldOrder {
		if msg, bad := violations[f]; bad {
			return nil, &ValidationError{Field: f, Message: msg}
		}
	}
	if generic {
		return nil, &ValidationError{Message: GenericMessage}
	}

	return req, nil
}

func optionalFloat(obj map[string]any, key string, violations map[string]string) *float64 {
	if _, bad := violations[key]; bad {
		return nil
	}
	v, ok := mapsafe.Lookup[float64](obj, key)
	if !ok {
		return nil
	}
	if v < 0 || v > 1 {
		violations[key] = fieldMessages[key]
		return nil
	}
	return &v
}

// leaves flattens the cause tree into its innermost errors.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}

	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// fieldsOf maps a schema violation to the request fields it concerns.
func fieldsOf(leaf *jsonschema.ValidationError, obj map[string]any) []string {
	loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if loc != "" {
		field, _, _ := strings.Cut(loc, "/")
		if _, known := fieldMessages[field]; known {
			return []string{field}
		}
		return nil
	}

	if strings.HasSuffix(leaf.KeywordLocation, "/required") {
		var missing []string
		for _, f := range []string{"text", "voiceId"} {
			if _, ok := obj[f]; !ok {
				missing = append(missing, f)
			}
		}
		return missing
	}

	return nil
}
