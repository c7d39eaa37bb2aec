package trace

import "errors"

var (
	// ErrSyntax indicates a malformed trace file.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrBadID indicates an operation on an id that is out of range, or
	// not in the state the operation requires.
	ErrBadID = errors.New("trace: bad id")

	// ErrAlignment indicates the allocator returned a misaligned payload.
	ErrAlignment = errors.New("trace: misaligned payload")

	// ErrOverlap indicates two live payloads share bytes.
	ErrOverlap = errors.New("trace: overlapping payloads")

	// ErrIntegrity indicates payload bytes changed while the block was live.
	ErrIntegrity = errors.New("trace: payload corrupted")
)
