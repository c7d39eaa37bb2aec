package memlib

import "fmt"

// Limited wraps a Provider and refuses to grow it beyond Max bytes.
type Limited struct {
	Provider
	Max int
}

// NewLimited returns p restricted to max bytes.
func NewLimited(p Provider, max int) *Limited {
	return &Limited{Provider: p, Max: max}
}

// Sbrk fails with ErrNoMemory once the budget would be exceeded.
func (l *Limited) Sbrk(incr int) (int, error) {
	if incr < 0 {
		return 0, ErrBadIncrement
	}
	size := HeapSize(l.Provider)
	if incr > l.Max-size {
		return 0, fmt.Errorf("sbrk %d at size %d (limit %d): %w", incr, size, l.Max, ErrNoMemory)
	}
	return l.Provider.Sbrk(incr)
}
