package memlib

import "fmt"

// Mem is an in-memory Provider. The whole region up to its maximum is
// reserved at construction, so payload slices stay valid across growth.
type Mem struct {
	data     []byte // len is the break, cap is the maximum
	pageSize int
}

// NewMem creates an in-memory region that can grow to max bytes.
// A non-positive max selects DefaultMaxHeap.
func NewMem(max int) *Mem {
	if max <= 0 {
		max = DefaultMaxHeap
	}
	return &Mem{
		data:     make([]byte, 0, max),
		pageSize: systemPageSize(),
	}
}

func (m *Mem) Lo() int { return 0 }

func (m *Mem) Hi() int { return len(m.data) - 1 }

func (m *Mem) PageSize() int { return m.pageSize }

// Max returns the region limit.
func (m *Mem) Max() int { return cap(m.data) }

// Sbrk extends the region by incr bytes and returns the old break.
func (m *Mem) Sbrk(incr int) (int, error) {
	if incr < 0 {
		return 0, ErrBadIncrement
	}
	old := len(m.data)
	if incr > cap(m.data)-old {
		return 0, fmt.Errorf("sbrk %d at break %d (max %d): %w", incr, old, cap(m.data), ErrNoMemory)
	}
	m.data = m.data[:old+incr]
	return old, nil
}

func (m *Mem) Bytes() []byte { return m.data }

// Reset rewinds the break to zero and clears the region so it can host a
// fresh heap.
func (m *Mem) Reset() {
	clear(m.data)
	m.data = m.data[:0]
}
