package playback

import "errors"

// Error definitions for the playback package. Handles wrap these so the
// Player can tell a refused or interrupted attempt from other failures.
var (
	ErrNotAllowed = errors.New("playback: not allowed")
	ErrAborted    = errors.New("playback: aborted")
	ErrNoSource   = errors.New("playback: no source")
)
