package elevenlabs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error definitions for the elevenlabs package.
var (
	ErrEmptyStream   = errors.New("elevenlabs: stream response has no body")
	ErrMissingAPIKey = errors.New("elevenlabs: api key is not configured")
)

// APIError is returned for any non-2xx provider response.
type APIError struct {
	StatusCode int
	Status     string // status text, e.g. "Unauthorized"
	Detail     string // provider error detail, empty when the body was not JSON
}

// Error implements error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("elevenlabs: request failed with status %d %s", e.StatusCode, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Detail:     errorDetail(body),
	}
}
