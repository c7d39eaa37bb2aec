package memlib

import "errors"

var (
	// ErrNoMemory indicates the region cannot be extended by the requested amount.
	// The region is unchanged when this is returned.
	ErrNoMemory = errors.New("memlib: out of memory")

	// ErrBadIncrement indicates a negative Sbrk increment.
	ErrBadIncrement = errors.New("memlib: negative increment")

	// ErrClosed indicates use of a provider after Close.
	ErrClosed = errors.New("memlib: provider closed")
)
