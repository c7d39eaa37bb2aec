// Package mmfile maps allocation trace files read-only so large traces can
// be parsed without copying them onto the Go heap.
package mmfile

import "errors"

// ErrTooLarge indicates a file that does not fit in the address space.
var ErrTooLarge = errors.New("mmfile: file too large to map")
