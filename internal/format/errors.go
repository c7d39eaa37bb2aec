package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadTag indicates a boundary tag with an impossible size.
	ErrBadTag = errors.New("format: bad boundary tag")
)
