package memlib

import "os"

const (
	// DefaultMaxHeap is the default region limit (20 MiB).
	DefaultMaxHeap = 20 * (1 << 20)
)

// Provider is the backing store consumed by the allocator.
type Provider interface {
	// Lo returns the offset of the first byte of the region (always 0).
	Lo() int

	// Hi returns the offset of the last byte of the region, or -1 when empty.
	Hi() int

	// PageSize returns the growth granularity hint.
	PageSize() int

	// Sbrk extends the region by incr bytes and returns the previous break.
	// On failure the region is unchanged and the error wraps ErrNoMemory.
	Sbrk(incr int) (int, error)

	// Bytes returns the current region [Lo, Hi]. The slice is only valid
	// until the next Sbrk.
	Bytes() []byte
}

// HeapSize returns the number of bytes currently in p's region.
func HeapSize(p Provider) int {
	return p.Hi() - p.Lo() + 1
}

func systemPageSize() int {
	if ps := os.Getpagesize(); ps > 0 {
		return ps
	}
	return 4096
}
