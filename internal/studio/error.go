package studio

import (
	"errors"
	"fmt"
)

// Error definitions for the studio package.
var (
	ErrBusy            = errors.New("studio: a render is already in progress")
	ErrNoVoice         = errors.New("studio: no voice selected")
	ErrEmptyText       = errors.New("studio: script is empty")
	ErrTextTooLong     = errors.New("studio: script is too long")
	ErrUnknownLanguage = errors.New("studio: unknown language")
	ErrOutOfRange      = errors.New("studio: value must be between 0 and 1")
	ErrInvalidLatency  = errors.New("studio: latency must be 0, 1 or 2")
	ErrEmptyAudio      = errors.New("studio: proxy returned no audio")
	ErrNotInHistory    = errors.New("studio: no such history item")
)

// ProxyError is a non-2xx response from the proxy.
type ProxyError struct {
	StatusCode int
	Message    string
}

// Error implements error.
func (e *ProxyError) Error() string {
	return fmt.Sprintf("studio: proxy returned %d: %s", e.StatusCode, e.Message)
}
