package alloc

import "sync"

// Locked serializes access to a shared Allocator.
type Locked struct {
	mu sync.Mutex
	a  *Allocator
}

// NewLocked wraps a. The caller must not use a directly afterwards.
func NewLocked(a *Allocator) *Locked {
	return &Locked{a: a}
}

// Alloc is Allocator.Alloc under the lock.
func (l *Locked) Alloc(n int) (Ptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Alloc(n)
}

// Free is Allocator.Free under the lock.
func (l *Locked) Free(p Ptr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.a.Free(p)
}

// Realloc is Allocator.Realloc under the lock. Payload bytes are copied
// while the lock is held, so concurrent Read and Write calls never observe a
// half-moved block.
func (l *Locked) Realloc(p Ptr, n int) (Ptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Realloc(p, n)
}

// Write copies src into the payload at p and returns the number of bytes
// copied. Payload slices cannot be handed out safely, since another
// goroutine may grow the heap.
func (l *Locked) Write(p Ptr, src []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copy(l.a.Bytes(p), src)
}

// Read copies the payload at p into dst and returns the number of bytes copied.
func (l *Locked) Read(p Ptr, dst []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copy(dst, l.a.Bytes(p))
}

// Do runs fn with exclusive access to the underlying allocator.
func (l *Locked) Do(fn func(a *Allocator) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.a)
}

// Check verifies the heap while holding the lock.
func (l *Locked) Check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.a.Check()
}
