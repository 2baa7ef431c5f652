package studio

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/playback"
)

func TestREPL_Session(t *testing.T) {
	client := new(MockSynthesizer)
	client.On("Voices", mock.Anything).Return([]catalog.Voice{
		{ID: "v-en", Name: "Rachel", LanguageCode: "en"},
		{ID: "v-he", Name: "Avi", LanguageCode: "he"},
	}, nil)
	client.On("Synthesize", mock.Anything, mock.Anything).Return(audio("ID3"), nil)

	handle := &recordingHandle{}
	s := newTestSession(t, client, handle)

	var out bytes.Buffer
	input := strings.Join([]string{
		"voices",
		"voice 1",
		"stability 0.9",
		"latency 1",
		"text hello there",
		"say",
		"history",
		"replay 1",
		"bogus",
		"quit",
		"say",
	}, "\n")

	require.NoError(t, NewREPL(s, &out).Run(context.Background(), strings.NewReader(input)))

	form := s.Form()
	assert.Equal(t, "v-en", form.VoiceID)
	assert.Equal(t, 0.9, form.Stability)
	require.NotNil(t, form.OptimizeStreamingLatency)
	assert.Equal(t, 1, *form.OptimizeStreamingLatency)

	assert.Len(t, s.History(), 1)
	assert.Len(t, handle.plays, 2)
	client.AssertNumberOfCalls(t, "Synthesize", 1)

	text := out.String()
	assert.Contains(t, text, "Rachel")
	assert.Contains(t, text, "voice: Rachel")
	assert.Contains(t, text, "playing")
	assert.Contains(t, text, `unknown command "bogus"`)
}

func TestREPL_Errors(t *testing.T) {
	s := newTestSession(t, new(MockSynthesizer), nil)
	r := NewREPL(s, &bytes.Buffer{})
	ctx := context.Background()

	_, err := r.Exec(ctx, "stability 2")
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = r.Exec(ctx, "latency fast")
	assert.Error(t, err)

	_, err = r.Exec(ctx, "voice 3")
	assert.Error(t, err)

	_, err = r.Exec(ctx, "say")
	assert.ErrorIs(t, err, ErrNoVoice)
	assert.Equal(t, "Please select a voice", describe(err))

	_, err = r.Exec(ctx, "replay 1")
	assert.Error(t, err)

	quit, err := r.Exec(ctx, "quit")
	assert.NoError(t, err)
	assert.True(t, quit)
}

func TestREPL_BlockedPlaybackHint(t *testing.T) {
	client := new(MockSynthesizer)
	client.On("Synthesize", mock.Anything, mock.Anything).Return(audio("ID3"), nil)

	s := newTestSession(t, client, &recordingHandle{playErr: playback.ErrNotAllowed})
	s.SetVoice("v")

	var out bytes.Buffer
	_, err := NewREPL(s, &out).Exec(context.Background(), "say")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "type replay to listen")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", excerpt("short\n text", 40))
	assert.Equal(t, "abcd…", excerpt("abcdefgh", 5))
}
