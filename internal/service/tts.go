// Package service sits between the HTTP handlers and the speech provider.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/config"
	"github.com/ekisa-team/voicestudio/internal/synthesis"
)

// Provider is a text-to-speech backend.
type Provider interface {
	ListVoices(ctx context.Context) ([]catalog.Voice, error)
	Synthesize(ctx context.Context, req *synthesis.Request) ([]byte, error)
	SynthesizeStream(ctx context.Context, req *synthesis.Request) (io.ReadCloser, error)
}

// TTS is a service abstraction for text-to-speech.
type TTS struct {
	provider Provider
	source   config.Source
}

// NewTTS creates a new TTS service.
func NewTTS(provider Provider, source config.Source) *TTS {
	return &TTS{
		provider: provider,
		source:   source,
	}
}

// Voices returns the provider voices with duplicate ids removed.
func (s *TTS) Voices(ctx context.Context) ([]catalog.Voice, error) {
	voices, err := s.provider.ListVoices(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.DedupeVoices(voices), nil
}

// Validate turns a decoded payload into a request, bounding the text by
// the model the provider would use for it.
func (s *TTS) Validate(payload any) (*synthesis.Request, error) {
	cfg, err := s.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("service: failed to read config: %w", err)
	}
	return synthesis.Validate(payload, cfg.Provider.DefaultModelID)
}

// Synthesize renders req. When streaming is enabled the provider stream is
// returned as is; otherwise the audio is buffered first.
func (s *TTS) Synthesize(ctx context.Context, req *synthesis.Request) (io.ReadCloser, error) {
	cfg, err := s.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("service: failed to read config: %w", err)
	}

	if cfg.Server.Streaming {
		return s.provider.SynthesizeStream(ctx, req)
	}

	audio, err := s.provider.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(audio)), nil
}

// Ready reports whether the current configuration can be loaded.
func (s *TTS) Ready() error {
	_, err := s.source.Snapshot()
	return err
}
