package pls

import "errors"

var (
	// ErrValidation rejects a browse before a handle is produced: zero count,
	// options outside the source caps, or missing arguments.
	ErrValidation = errors.New("invalid browse request")

	// ErrBrowseFailed is delivered as the single terminal callback when the
	// container cannot be browsed (no URL, not a playlist).
	ErrBrowseFailed = errors.New("browse failed")

	// ErrCancelled is delivered as the single terminal callback of a cancelled browse.
	ErrCancelled = errors.New("operation was cancelled")

	// ErrParse marks a parser that completed with a non-success status. It is logged, never delivered.
	ErrParse = errors.New("playlist parsing failed")

	// ErrUnsupportedScheme marks an entry URI that is neither a bare path nor file://.
	ErrUnsupportedScheme = errors.New("unsupported uri scheme")
)
