package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free block was large enough and the heap could not grow.
	ErrNoSpace = errors.New("alloc: out of heap space")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("alloc: negative size")

	// ErrBadConfig indicates an unusable Config.
	ErrBadConfig = errors.New("alloc: bad config")

	// ErrInit indicates that formatting a new heap failed. The allocator must not be used.
	ErrInit = errors.New("alloc: heap initialization failed")

	// ErrNotEmpty indicates New was given a provider that already holds data.
	ErrNotEmpty = errors.New("alloc: provider is not empty")

	// ErrCorrupt indicates a heap image failed verification when attaching to it.
	ErrCorrupt = errors.New("alloc: heap image is corrupt")
)
