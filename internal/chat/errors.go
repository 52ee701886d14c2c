package chat

import "errors"

// ErrNotConfigured means the generation credential is missing. It is the
// only failure surfaced before any retrieval work begins.
var ErrNotConfigured = errors.New("API key not configured")

// ErrGeneration wraps downstream generator failures, the one fatal error
// class for a chat request. Retrieval-path failures never reach the caller.
var ErrGeneration = errors.New("generation failed")
