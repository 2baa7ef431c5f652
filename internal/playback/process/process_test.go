package process

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voicestudio/internal/playback"
)

// fakeRunner records invocations. Started commands run until cancelled
// unless exitErr is set, in which case they exit immediately.
type fakeRunner struct {
	mu       sync.Mutex
	calls    [][]string
	startErr error
	exitErr  error
}

func (f *fakeRunner) Start(ctx context.Context, name string, args []string) (func() error, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.exitErr != nil {
		return func() error { return f.exitErr }, nil
	}
	return func() error {
		<-ctx.Done()
		return ctx.Err()
	}, nil
}

func (f *fakeRunner) lastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o600))
	return path
}

func TestHandle_PlayInvokesPlayer(t *testing.T) {
	runner := &fakeRunner{}
	h := New(WithRunner(runner), WithStartGrace(10*time.Millisecond))
	t.Cleanup(func() { _ = h.Close() })

	clip := writeClip(t)
	h.SetSource(clip)
	require.NoError(t, h.Load())
	require.NoError(t, h.Play(context.Background()))

	assert.True(t, h.Playing())
	assert.Equal(t, []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", clip}, runner.lastCall())
}

func TestHandle_PlayWithoutSource(t *testing.T) {
	h := New(WithRunner(&fakeRunner{}))

	assert.ErrorIs(t, h.Play(context.Background()), playback.ErrNoSource)
	assert.ErrorIs(t, h.Load(), playback.ErrNoSource)
}

func TestHandle_LoadMissingFile(t *testing.T) {
	h := New(WithRunner(&fakeRunner{}))
	h.SetSource(filepath.Join(t.TempDir(), "missing.mp3"))

	assert.ErrorIs(t, h.Load(), os.ErrNotExist)
}

func TestHandle_MissingBinaryIsNotAllowed(t *testing.T) {
	runner := &fakeRunner{startErr: &exec.Error{Name: "ffplay", Err: exec.ErrNotFound}}
	h := New(WithRunner(runner))
	h.SetSource(writeClip(t))

	err := h.Play(context.Background())
	assert.ErrorIs(t, err, playback.ErrNotAllowed)
	assert.False(t, h.Playing())
}

func TestHandle_EarlyExitIsReported(t *testing.T) {
	runner := &fakeRunner{exitErr: errors.New("exit status 1: invalid data")}
	h := New(WithRunner(runner), WithStartGrace(time.Second))
	h.SetSource(writeClip(t))

	err := h.Play(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data")
	assert.NotErrorIs(t, err, playback.ErrNotAllowed)
}

func TestHandle_CancelledContextIsAborted(t *testing.T) {
	runner := &fakeRunner{}
	h := New(WithRunner(runner), WithStartGrace(time.Second))
	h.SetSource(writeClip(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.Play(ctx), playback.ErrAborted)
}

func TestHandle_PauseResumesFromOffset(t *testing.T) {
	runner := &fakeRunner{}
	h := New(WithRunner(runner), WithStartGrace(time.Millisecond))
	t.Cleanup(func() { _ = h.Close() })

	clip := writeClip(t)
	h.SetSource(clip)
	require.NoError(t, h.Play(context.Background()))

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, h.Pause())
	assert.False(t, h.Playing())

	require.NoError(t, h.Play(context.Background()))
	call := runner.lastCall()
	require.Len(t, call, 8)
	assert.Equal(t, DefaultSeekFlag, call[5])
	assert.Equal(t, clip, call[7])
}

func TestHandle_SeekStopsAndRestarts(t *testing.T) {
	runner := &fakeRunner{}
	h := New(WithRunner(runner), WithStartGrace(time.Millisecond))
	t.Cleanup(func() { _ = h.Close() })

	clip := writeClip(t)
	h.SetSource(clip)
	require.NoError(t, h.Play(context.Background()))

	require.NoError(t, h.Seek(0))
	assert.False(t, h.Playing())

	require.NoError(t, h.Play(context.Background()))
	assert.Equal(t, []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", clip}, runner.lastCall())
}

func TestHandle_WithPlayerWithoutSeek(t *testing.T) {
	runner := &fakeRunner{}
	opt, ok := ParsePlayer("mpv --no-video")
	require.True(t, ok)

	h := New(WithRunner(runner), opt, WithStartGrace(time.Millisecond))
	t.Cleanup(func() { _ = h.Close() })

	clip := writeClip(t)
	h.SetSource(clip)
	require.NoError(t, h.Seek(3*time.Second))
	require.NoError(t, h.Play(context.Background()))

	assert.Equal(t, []string{"mpv", "--no-video", clip}, runner.lastCall())
}

func TestParsePlayer_Empty(t *testing.T) {
	_, ok := ParsePlayer("   ")
	assert.False(t, ok)
}

func TestHandle_WithPlaybackPlayer(t *testing.T) {
	runner := &fakeRunner{startErr: &exec.Error{Name: "ffplay", Err: exec.ErrNotFound}}
	h := New(WithRunner(runner))

	p := playback.NewPlayer()
	p.Attach(h)

	assert.Equal(t, playback.OutcomeBlocked, p.Play(context.Background(), writeClip(t)))
}
