package utf8str

import "errors"

// Errors returned by construction.
var (
	// ErrInvalidCodepoint indicates a codepoint outside [0, 0x7FFFFFFF].
	ErrInvalidCodepoint = errors.New("invalid codepoint")
)
