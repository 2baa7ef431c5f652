// Package playback drives a single audio handle and reports what happened
// as an Outcome instead of an error.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Handle is an audio output the Player can drive.
type Handle interface {
	Source() string
	SetSource(src string)
	Load() error
	Play(ctx context.Context) error
	Pause() error
	Seek(pos time.Duration) error
}

// Outcome is the result of a playback attempt.
type Outcome int

const (
	// OutcomeIdle means there was nothing to play.
	OutcomeIdle Outcome = iota

	// OutcomePlayed means playback started.
	OutcomePlayed

	// OutcomeBlocked means the attempt was refused or interrupted. The
	// user can retry by hand.
	OutcomeBlocked
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomePlayed:
		return "played"
	case OutcomeBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Player plays sources through the attached Handle.
type Player struct {
	mu     sync.Mutex
	handle Handle
}

// NewPlayer creates a Player without a handle.
func NewPlayer() *Player {
	return &Player{}
}

// Attach sets the handle used by later calls.
func (p *Player) Attach(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = h
}

// Detach removes the handle. Later calls become no-ops.
func (p *Player) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = nil
}

func (p *Player) current() Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle
}

// Play switches the handle to src when needed and starts playback.
func (p *Player) Play(ctx context.Context, src string) Outcome {
	h := p.current()
	if h == nil {
		return OutcomeIdle
	}

	if h.Source() != src {
		h.SetSource(src)
		if err := h.Load(); err != nil {
			slog.Debug("Failed to load audio source", "source", src, "error", err)
		}
	}

	return p.attempt(ctx, h)
}

// Replay restarts the current source from the beginning.
func (p *Player) Replay(ctx context.Context) Outcome {
	h := p.current()
	if h == nil || h.Source() == "" {
		return OutcomeIdle
	}

	if err := h.Seek(0); err != nil {
		slog.Debug("Failed to rewind audio", "error", err)
	}

	return p.attempt(ctx, h)
}

// Pause pauses the handle, if any.
func (p *Player) Pause() {
	h := p.current()
	if h == nil {
		return
	}
	if err := h.Pause(); err != nil {
		slog.Debug("Failed to pause audio", "error", err)
	}
}

func (p *Player) attempt(ctx context.Context, h Handle) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Playback panicked", "panic", r)
			outcome = OutcomeBlocked
		}
	}()

	err := h.Play(ctx)
	switch {
	case err == nil:
		return OutcomePlayed
	case errors.Is(err, ErrNotAllowed):
		slog.Warn("Playback was blocked", "source", h.Source(), "error", err)
	case errors.Is(err, ErrAborted):
		slog.Warn("Playback was interrupted", "source", h.Source(), "error", err)
	default:
		slog.Warn("Playback failed", "source", h.Source(), "error", err)
	}

	return OutcomeBlocked
}
