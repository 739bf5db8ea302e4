package jobs

import "errors"

// Errors a Source wraps so callers can classify failures without parsing
// messages, which may echo a caller-supplied path.
var (
	// ErrInvalidPath means the path is malformed or escapes the dataset root.
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathNotAllowed means the dataset is not on the configured allowlist.
	ErrPathNotAllowed = errors.New("path not allowed")

	// ErrTableNotFound means the named table does not exist.
	ErrTableNotFound = errors.New("table not found")

	// ErrObjectNotFound means the bucket holds no object at the key.
	ErrObjectNotFound = errors.New("object not found")
)
