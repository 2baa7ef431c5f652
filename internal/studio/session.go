// Package studio holds the state of an interactive speech studio: the form,
// the preview player and the recent render history.
package studio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/playback"
	"github.com/ekisa-team/voicestudio/internal/synthesis"
)

// Form defaults.
const (
	DefaultLanguage        = "en"
	DefaultStability       = 0.5
	DefaultSimilarityBoost = 0.75
	DefaultStyle           = 0.0
)

// Synthesizer is the proxy surface the session needs.
type Synthesizer interface {
	Voices(ctx context.Context) ([]catalog.Voice, error)
	Synthesize(ctx context.Context, req *synthesis.Request) (io.ReadCloser, error)
}

// Form is the editable studio state.
type Form struct {
	Language                 string
	VoiceID                  string
	Text                     string
	Stability                float64
	SimilarityBoost          float64
	StyleExaggeration        float64
	OptimizeStreamingLatency *int
	ModelID                  string
}

// Session is one studio session. Its clip files live in a private temporary
// directory removed by Close.
type Session struct {
	client       Synthesizer
	player       *playback.Player
	history      *History
	dir          string
	defaultModel string
	now          func() time.Time

	busy atomic.Bool

	mu     sync.Mutex
	form   Form
	voices []catalog.Voice
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDefaultModel sets the model assumed for the text length bound when the
// form names none. It should match the proxy's configured default.
func WithDefaultModel(model string) SessionOption {
	return func(s *Session) { s.defaultModel = model }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session with default form values.
func NewSession(client Synthesizer, player *playback.Player, opts ...SessionOption) (*Session, error) {
	dir, err := os.MkdirTemp("", "voicestudio-*")
	if err != nil {
		return nil, fmt.Errorf("studio: failed to create session directory: %w", err)
	}

	s := &Session{
		client:       client,
		player:       player,
		history:      NewHistory(),
		dir:          dir,
		defaultModel: catalog.DefaultModel,
		now:          time.Now,
		form: Form{
			Language:          DefaultLanguage,
			Stability:         DefaultStability,
			SimilarityBoost:   DefaultSimilarityBoost,
			StyleExaggeration: DefaultStyle,
		},
	}
	if l, ok := catalog.Lookup(DefaultLanguage); ok {
		s.form.Text = l.Sample
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Form returns a copy of the form.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Dir returns the session directory.
func (s *Session) Dir() string {
	return s.dir
}

// SetLanguage switches the language. An empty script, or one still holding
// the previous language's sample, is replaced by the new sample.
func (s *Session) SetLanguage(code string) error {
	code = strings.TrimSpace(code)

	var sample string
	if code != catalog.AutoDetect {
		l, ok := catalog.Lookup(code)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
		}
		sample = l.Sample
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var previous string
	if l, ok := catalog.Lookup(s.form.Language); ok {
		previous = l.Sample
	}
	if sample != "" && (strings.TrimSpace(s.form.Text) == "" || s.form.Text == previous) {
		s.form.Text = sample
	}
	s.form.Language = code
	return nil
}

// SetVoice selects the voice by id.
func (s *Session) SetVoice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.VoiceID = strings.TrimSpace(id)
}

// SetText replaces the script.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Text = text
}

// SetStability sets the stability slider.
func (s *Session) SetStability(v float64) error {
	return s.setUnit(&s.form.Stability, v)
}

// SetSimilarityBoost sets the similarity slider.
func (s *Session) SetSimilarityBoost(v float64) error {
	return s.setUnit(&s.form.SimilarityBoost, v)
}

// SetStyleExaggeration sets the style slider.
func (s *Session) SetStyleExaggeration(v float64) error {
	return s.setUnit(&s.form.StyleExaggeration, v)
}

func (s *Session) setUnit(field *float64, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: got %v", ErrOutOfRange, v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	*field = v
	return nil
}

// SetLatency sets the latency optimization level; nil leaves it to the proxy.
func (s *Session) SetLatency(level *int) error {
	if level != nil && (*level < 0 || *level > 2) {
		return fmt.Errorf("%w: got %d", ErrInvalidLatency, *level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if level == nil {
		s.form.OptimizeStreamingLatency = nil
		return nil
	}
	v := *level
	s.form.OptimizeStreamingLatency = &v
	return nil
}

// SetModel sets the requested model; an empty id leaves it to the proxy.
func (s *Session) SetModel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.ModelID = strings.TrimSpace(id)
}

// TextLimit returns the script bound for the current form.
func (s *Session) TextLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.TextLimit(catalog.SelectModel(s.form.Language, s.form.ModelID, s.defaultModel))
}

// LoadVoices fetches the voice list from the proxy.
func (s *Session) LoadVoices(ctx context.Context) error {
	voices, err := s.client.Voices(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.voices = catalog.DedupeVoices(voices)
	s.mu.Unlock()

	slog.Debug("Loaded voices", "count", len(voices))
	return nil
}

// Voices returns the voices for the selected language, or every voice when
// none match.
func (s *Session) Voices() []catalog.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := catalog.VoicesForLanguage(s.voices, s.form.Language)
	out := make([]catalog.Voice, len(filtered))
	copy(out, filtered)
	return out
}

// Submit renders the form, stores the clip, plays it and records it in
// the history. Only one submission runs at a time.
func (s *Session) Submit(ctx context.Context) (HistoryItem, playback.Outcome, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return HistoryItem{}, playback.OutcomeIdle, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	form := s.form
	voiceName := s.voiceNameLocked(form.VoiceID)
	s.mu.Unlock()

	if strings.TrimSpace(form.Text) == "" {
		return HistoryItem{}, playback.OutcomeIdle, ErrEmptyText
	}
	if form.VoiceID == "" {
		return HistoryItem{}, playback.OutcomeIdle, ErrNoVoice
	}
	limit := catalog.TextLimit(catalog.SelectModel(form.Language, form.ModelID, s.defaultModel))
	if n := utf8.RuneCountInString(form.Text); n > limit {
		return HistoryItem{}, playback.OutcomeIdle, fmt.Errorf("%w: %d characters, limit is %d", ErrTextTooLong, n, limit)
	}

	audio, err := s.client.Synthesize(ctx, form.request())
	if err != nil {
		return HistoryItem{}, playback.OutcomeIdle, err
	}
	defer audio.Close()

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+".mp3")
	if err := writeClip(path, audio); err != nil {
		return HistoryItem{}, playback.OutcomeIdle, err
	}

	item := HistoryItem{
		ID:        id,
		Text:      form.Text,
		VoiceName: voiceName,
		CreatedAt: s.now(),
		AudioSrc:  path,
	}
	s.history.Add(item)

	return item, s.player.Play(ctx, path), nil
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Replay restarts the current clip.
func (s *Session) Replay(ctx context.Context) playback.Outcome {
	return s.player.Replay(ctx)
}

// PlayHistory plays the history entry with id.
func (s *Session) PlayHistory(ctx context.Context, id string) (playback.Outcome, error) {
	item, ok := s.history.Get(id)
	if !ok {
		return playback.OutcomeIdle, fmt.Errorf("%w: %s", ErrNotInHistory, id)
	}
	return s.player.Play(ctx, item.AudioSrc), nil
}

// Pause pauses the preview player.
func (s *Session) Pause() {
	s.player.Pause()
}

// History returns the recent renders, newest first.
func (s *Session) History() []HistoryItem {
	return s.history.Items()
}

// Close stops playback and removes every clip file of the session.
func (s *Session) Close() error {
	s.player.Pause()
	s.player.Detach()

	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("studio: failed to remove session directory: %w", err)
	}
	return nil
}

func (s *Session) voiceNameLocked(id string) string {
	for _, v := range s.voices {
		if v.ID == id {
			return v.Name
		}
	}
	return id
}

func (f Form) request() *synthesis.Request {
	req := &synthesis.Request{
		Text:              f.Text,
		VoiceID:           f.VoiceID,
		Language:          f.Language,
		Stability:         synthesis.Float(f.Stability),
		SimilarityBoost:   synthesis.Float(f.SimilarityBoost),
		StyleExaggeration: synthesis.Float(f.StyleExaggeration),
		ModelID:           f.ModelID,
	}
	if f.OptimizeStreamingLatency != nil {
		req.OptimizeStreamingLatency = synthesis.Int(*f.OptimizeStreamingLatency)
	}
	return req
}

func writeClip(path string, audio io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("studio: failed to create clip: %w", err)
	}

	n, err := io.Copy(f, audio)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n == 0 {
		err = ErrEmptyAudio
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("studio: failed to write clip: %w", err)
	}

	return nil
}
