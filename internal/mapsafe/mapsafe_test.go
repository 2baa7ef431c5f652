package mapsafe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	m := map[string]any{
		"text":      "hello",
		"stability": 0.4,
		"latency":   float64(2),
		"fraction":  1.5,
		"count":     3,
		"flag":      true,
		"nothing":   nil,
	}

	s, ok := Lookup[string](m, "text")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	f, ok := Lookup[float64](m, "stability")
	assert.True(t, ok)
	assert.InDelta(t, 0.4, f, 1e-9)

	f, ok = Lookup[float64](m, "count")
	assert.True(t, ok)
	assert.InDelta(t, 3.0, f, 1e-9)

	i, ok := Lookup[int](m, "latency")
	assert.True(t, ok)
	assert.Equal(t, 2, i)

	_, ok = Lookup[int](m, "fraction")
	assert.False(t, ok)

	b, ok := Lookup[bool](m, "flag")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = Lookup[string](m, "nothing")
	assert.False(t, ok)

	_, ok = Lookup[string](m, "stability")
	assert.False(t, ok)

	_, ok = Lookup[string](m, "missing")
	assert.False(t, ok)
}

func TestGet_Default(t *testing.T) {
	m := map[string]any{"voiceId": 42.0}

	assert.Equal(t, "fallback", Get(m, "voiceId", "fallback"))
	assert.Equal(t, 42, Get(m, "voiceId", 0))
	assert.InDelta(t, 0.5, Get(m, "missing", 0.5), 1e-9)
}
