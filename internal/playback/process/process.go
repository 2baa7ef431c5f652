// Package process implements a playback.Handle that plays clip files
// through an external player binary such as ffplay.
package process

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ekisa-team/voicestudio/internal/playback"
)

// Default player invocation.
const (
	DefaultPlayer   = "ffplay"
	DefaultSeekFlag = "-ss"
)

// DefaultArgs are passed to DefaultPlayer before the clip path.
var DefaultArgs = []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}

// startGrace is how long Play waits for the player to fail on startup.
const startGrace = 250 * time.Millisecond

var _ playback.Handle = (*Handle)(nil)

// Handle plays one source file at a time through a player process.
//
// Pausing stops the process and remembers the elapsed position; the next
// Play resumes there when the player supports seeking.
type Handle struct {
	runner   CommandRunner
	binary   string
	args     []string
	seekFlag string
	grace    time.Duration

	mu      sync.Mutex
	source  string
	offset  time.Duration
	current *run
}

type run struct {
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
	started time.Time
	stopped atomic.Bool
}

// Option configures a Handle.
type Option func(*Handle)

// WithRunner replaces the os/exec runner.
func WithRunner(r CommandRunner) Option {
	return func(h *Handle) { h.runner = r }
}

// WithPlayer sets the player binary and the arguments placed before the
// clip path. seekFlag is the flag taking a start offset in seconds; an
// empty flag disables resuming.
func WithPlayer(binary, seekFlag string, args ...string) Option {
	return func(h *Handle) {
		h.binary = binary
		h.seekFlag = seekFlag
		h.args = args
	}
}

// WithStartGrace sets how long Play watches for an early player failure.
func WithStartGrace(d time.Duration) Option {
	return func(h *Handle) { h.grace = d }
}

// New creates a Handle using ffplay by default.
func New(opts ...Option) *Handle {
	h := &Handle{
		runner:   ExecCommandRunner{},
		binary:   DefaultPlayer,
		args:     DefaultArgs,
		seekFlag: DefaultSeekFlag,
		grace:    startGrace,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ParsePlayer splits a command line such as "mpv --no-video" into a player
// option. Only ffplay is known to take DefaultSeekFlag.
func ParsePlayer(cmdline string) (Option, bool) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, false
	}

	seek := ""
	if strings.TrimSuffix(fields[0], ".exe") == DefaultPlayer || strings.HasSuffix(fields[0], "/"+DefaultPlayer) {
		seek = DefaultSeekFlag
	}
	return WithPlayer(fields[0], seek, fields[1:]...), true
}

// Source returns the current clip path.
func (h *Handle) Source() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.source
}

// SetSource stops playback and switches to src from the beginning.
func (h *Handle) SetSource(src string) {
	h.mu.Lock()
	r := h.detachLocked()
	h.source = src
	h.offset = 0
	h.mu.Unlock()

	stop(r)
}

// Load checks that the source file is readable.
func (h *Handle) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.source == "" {
		return playback.ErrNoSource
	}
	if _, err := os.Stat(h.source); err != nil {
		return fmt.Errorf("process: failed to load %s: %w", h.source, err)
	}
	return nil
}

// Play starts the player. It returns nil once the player is running;
// failures within the start grace window are returned as errors.
func (h *Handle) Play(ctx context.Context) error {
	h.mu.Lock()
	if h.source == "" {
		h.mu.Unlock()
		return playback.ErrNoSource
	}
	if h.current != nil {
		h.mu.Unlock()
		return nil
	}

	args := append([]string{}, h.args...)
	if h.seekFlag != "" && h.offset > 0 {
		args = append(args, h.seekFlag, strconv.FormatFloat(h.offset.Seconds(), 'f', 3, 64))
	}
	args = append(args, h.source)

	pctx, cancel := context.WithCancel(ctx)
	wait, err := h.runner.Start(pctx, h.binary, args)
	if err != nil {
		h.mu.Unlock()
		cancel()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %v", playback.ErrNotAllowed, err)
		}
		return fmt.Errorf("process: failed to start %s: %w", h.binary, err)
	}

	r := &run{cancel: cancel, done: make(chan struct{}), started: time.Now()}
	h.current = r
	h.mu.Unlock()

	go func() {
		r.err = wait()
		close(r.done)
		h.finish(r)
	}()

	slog.Debug("Player started", "binary", h.binary, "source", args[len(args)-1])

	timer := time.NewTimer(h.grace)
	defer timer.Stop()

	select {
	case <-r.done:
		if r.stopped.Load() || ctx.Err() != nil {
			return playback.ErrAborted
		}
		if r.err != nil {
			return fmt.Errorf("process: player exited: %w", r.err)
		}
		return nil
	case <-timer.C:
		return nil
	}
}

// Pause stops the player and keeps the position for the next Play.
func (h *Handle) Pause() error {
	h.mu.Lock()
	r := h.detachLocked()
	if r != nil {
		h.offset += time.Since(r.started)
	}
	h.mu.Unlock()

	stop(r)
	return nil
}

// Seek sets the position for the next Play, stopping a running player.
func (h *Handle) Seek(pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}

	h.mu.Lock()
	r := h.detachLocked()
	h.offset = pos
	h.mu.Unlock()

	stop(r)
	return nil
}

// Close stops the player.
func (h *Handle) Close() error {
	h.mu.Lock()
	r := h.detachLocked()
	h.mu.Unlock()

	stop(r)
	return nil
}

// Playing reports whether a player process is running.
func (h *Handle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil
}

func (h *Handle) detachLocked() *run {
	r := h.current
	h.current = nil
	return r
}

func (h *Handle) finish(r *run) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != r {
		return
	}
	h.current = nil
	h.offset = 0

	if r.err != nil && !r.stopped.Load() {
		slog.Warn("Player exited with error", "binary", h.binary, "error", r.err)
	}
}

func stop(r *run) {
	if r == nil {
		return
	}
	r.stopped.Store(true)
	r.cancel()
	<-r.done
}
