// Package elevenlabs is the client for the ElevenLabs text-to-speech API.
//
// It translates validated synthesis requests into the provider's wire format
// and provider responses back into catalog types. Configuration is read from
// a config.Source on every call, so the source's reload policy decides when
// edits become visible.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/config"
	"github.com/ekisa-team/voicestudio/internal/synthesis"
)

const (
	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client talks to the ElevenLabs REST API.
type Client struct {
	source     config.Source
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client reading its settings from source.
func NewClient(source config.Source, opts ...Option) *Client {
	c := &Client{
		source:     source,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListVoices fetches the provider voice list.
func (c *Client) ListVoices(ctx context.Context) ([]catalog.Voice, error) {
	cfg, err := c.provider()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(cfg.BaseURL, "voices"), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: voices request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var body wireVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to decode voices: %w", err)
	}

	voices := make([]catalog.Voice, 0, len(body.Voices))
	for _, w := range body.Voices {
		voices = append(voices, toVoice(w))
	}

	slog.Debug("Fetched voices", "count", len(voices))
	return voices, nil
}

// Synthesize renders req and returns the complete audio payload.
func (c *Client) Synthesize(ctx context.Context, req *synthesis.Request) ([]byte, error) {
	cfg, err := c.provider()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	resp, err := c.postSpeech(ctx, cfg, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to read audio: %w", err)
	}

	return audio, nil
}

// SynthesizeStream renders req and returns the live audio stream. The
// caller must close it; closing also releases the request deadline.
func (c *Client) SynthesizeStream(ctx context.Context, req *synthesis.Request) (io.ReadCloser, error) {
	cfg, err := c.provider()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)

	resp, err := c.postSpeech(ctx, cfg, req, true)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		cancel()
		return nil, ErrEmptyStream
	}

	return &streamBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

func (c *Client) postSpeech(ctx context.Context, cfg *config.ProviderConfig, req *synthesis.Request, stream bool) (*http.Response, error) {
	body, query := buildSpeechRequest(cfg, req)

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to marshal request: %w", err)
	}

	path := "text-to-speech/" + url.PathEscape(req.VoiceID)
	if stream {
		path += "/stream"
	}
	u := endpoint(cfg.BaseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/mpeg")

	slog.Debug("Requesting speech",
		"voice_id", req.VoiceID,
		"model_id", body.ModelID,
		"language_code", body.LanguageCode,
		"text_length", len(req.Text),
		"stream", stream,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: speech request: %w", err)
	}

	if err := checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

// buildSpeechRequest applies model selection, stability quantization and
// configuration defaults to req.
func buildSpeechRequest(cfg *config.ProviderConfig, req *synthesis.Request) (wireSpeechRequest, url.Values) {
	model := catalog.SelectModel(req.Language, req.ModelID, cfg.DefaultModelID)

	stability := defaultStability
	if req.Stability != nil {
		stability = *req.Stability
	}
	similarity := defaultSimilarityBoost
	if req.SimilarityBoost != nil {
		similarity = clamp01(*req.SimilarityBoost)
	}

	body := wireSpeechRequest{
		Text:    req.Text,
		ModelID: model,
		VoiceSettings: wireVoiceSettings{
			Stability:       QuantizeStability(model, stability),
			SimilarityBoost: similarity,
			UseSpeakerBoost: true,
		},
	}
	if req.StyleExaggeration != nil {
		style := clamp01(*req.StyleExaggeration)
		body.VoiceSettings.Style = &style
	}
	if req.Language != "" && req.Language != catalog.AutoDetect && catalog.SupportsLanguageCode(model) {
		body.LanguageCode = req.Language
	}

	query := url.Values{}
	if cfg.OutputFormat != "" {
		query.Set("output_format", cfg.OutputFormat)
	}
	latency := cfg.OptimizeStreamingLatency
	if req.OptimizeStreamingLatency != nil {
		latency = req.OptimizeStreamingLatency
	}
	if latency != nil {
		query.Set("optimize_streaming_latency", strconv.Itoa(*latency))
	}

	return body, query
}

func (c *Client) provider() (*config.ProviderConfig, error) {
	cfg, err := c.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: failed to read config: %w", err)
	}
	if cfg.Provider.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &cfg.Provider, nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return newAPIError(resp, body)
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

// streamBody cancels the request context once the stream is closed.
type streamBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (s *streamBody) Close() error {
	err := s.ReadCloser.Close()
	s.cancel()
	return err
}
