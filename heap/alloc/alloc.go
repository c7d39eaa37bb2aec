package alloc

import (
	"fmt"
	"math"

	"github.com/joshuapare/heapkit/heap/memlib"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Allocator manages one heap region. The zero value is not usable; create
// instances with New or Open.
type Allocator struct {
	p   memlib.Provider
	dt  DirtyTracker
	cfg Config

	// data caches p.Bytes() and is refreshed after every successful sbrk.
	data []byte

	// heads[i] is the payload offset of class i's head sentinel.
	heads []int
	tail  int

	stats Stats

	// onGrow is a test hook invoked with the increment of every extension.
	onGrow func(int)
}

// New formats an empty provider as a heap and extends it by one chunk.
//
// cfg may be nil, in which case DefaultConfig is used. dt may be nil; when
// set, every metadata write is reported to it.
func New(p memlib.Provider, dt DirtyTracker, cfg *Config) (*Allocator, error) {
	a, err := newAllocator(p, dt, cfg)
	if err != nil {
		return nil, err
	}
	if size := memlib.HeapSize(p); size != 0 {
		return nil, fmt.Errorf("%w: %d bytes in use (use Open to attach)", ErrNotEmpty, size)
	}

	if err := a.formatHeap(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	if _, err := a.extendHeap(a.cfg.ChunkSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	return a, nil
}

// Open attaches to a heap image already present in p, such as a reopened
// memlib.File. The image is verified before use, and its free lists are
// adopted as stored. cfg must describe the same number of classes the image
// was formatted with.
func Open(p memlib.Provider, dt DirtyTracker, cfg *Config) (*Allocator, error) {
	a, err := newAllocator(p, dt, cfg)
	if err != nil {
		return nil, err
	}
	if err := verify.Heap(a.data, a.cfg.NumClasses); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return a, nil
}

func newAllocator(p memlib.Provider, dt DirtyTracker, cfg *Config) (*Allocator, error) {
	if cfg == nil {
		def := DefaultConfig
		cfg = &def
	}
	resolved, err := cfg.resolve(p.PageSize())
	if err != nil {
		return nil, err
	}

	a := &Allocator{
		p:     p,
		dt:    dt,
		cfg:   resolved,
		data:  p.Bytes(),
		heads: make([]int, resolved.NumClasses),
		tail:  format.TailSentinel(resolved.NumClasses),
	}
	for i := range a.heads {
		a.heads[i] = format.HeadSentinel(i)
	}
	return a, nil
}

// formatHeap reserves and writes the sentinels, prologue and epilogue. Every
// head starts as an empty list pointing at the shared tail.
func (a *Allocator) formatHeap() error {
	if _, err := a.sbrk(format.InitialHeapSize(a.cfg.NumClasses)); err != nil {
		return err
	}
	// The reservation is not heap growth.
	a.stats.GrowCalls = 0
	a.stats.GrowBytes = 0

	for _, head := range a.heads {
		a.putTags(head, format.MinBlockSize, true)
		a.setPrevLink(head, int(Nil))
		a.setNextLink(head, a.tail)
	}
	a.putTags(a.tail, format.MinBlockSize, true)
	a.setPrevLink(a.tail, int(Nil))
	a.setNextLink(a.tail, int(Nil))

	a.putTags(format.ProloguePayload(a.cfg.NumClasses), format.Overhead, true)
	a.putEpilogue(format.FirstBlock(a.cfg.NumClasses))
	return nil
}

// Alloc returns a block with at least n usable bytes. The payload offset is
// 8-byte aligned. Alloc(0) returns Nil and leaves the heap untouched.
//
// When no listed block fits, the heap grows by max(need, ChunkSize). If the
// provider cannot grow, the returned error wraps ErrNoSpace and the heap is
// unchanged.
func (a *Allocator) Alloc(n int) (Ptr, error) {
	if n < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		return Nil, nil
	}
	if n > math.MaxInt-format.Overhead-format.Alignment {
		return Nil, fmt.Errorf("%w: request of %d bytes", ErrNoSpace, n)
	}
	a.stats.AllocCalls++
	return a.alloc(format.BlockSizeFor(n))
}

// alloc finds or makes room for a block of need bytes and places it.
func (a *Allocator) alloc(need int) (Ptr, error) {
	bp := a.find(need)
	if bp == 0 {
		var err error
		if bp, err = a.extendHeap(need); err != nil {
			return Nil, err
		}
		a.stats.AllocSlowPath++
	} else {
		a.stats.AllocFastPath++
	}

	a.remove(bp)
	return a.place(bp, need), nil
}

// Free releases the block at p and merges it with free neighbours. Freeing
// Nil is a no-op. p must come from Alloc or Realloc on this allocator and
// must not have been freed already.
func (a *Allocator) Free(p Ptr) {
	if p == Nil {
		return
	}
	a.stats.FreeCalls++
	a.free(int(p))
}

func (a *Allocator) free(bp int) {
	a.putTags(bp, a.sizeOf(bp), false)
	a.coalesce(bp)
}

// Realloc resizes the block at p to hold n bytes and returns its possibly
// new address. The first min(old usable size, n) bytes are preserved.
//
// Realloc(Nil, n) is Alloc(n); Realloc(p, 0) frees p and returns Nil. On
// error the original block is left untouched.
func (a *Allocator) Realloc(p Ptr, n int) (Ptr, error) {
	if p == Nil {
		return a.Alloc(n)
	}
	if n < 0 {
		return Nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	if n == 0 {
		a.Free(p)
		return Nil, nil
	}
	if n > math.MaxInt-format.Overhead-format.Alignment {
		return Nil, fmt.Errorf("%w: request of %d bytes", ErrNoSpace, n)
	}
	a.stats.ReallocCalls++

	bp := int(p)
	size := a.sizeOf(bp)
	need := format.BlockSizeFor(n)

	if need <= size {
		a.stats.ReallocInPlace++
		return a.place(bp, need), nil
	}

	right := a.view(bp + size)
	if right.state == blockFree && size+right.size >= need {
		a.remove(right.bp)
		a.putTags(bp, size+right.size, true)
		a.stats.ReallocInPlace++
		return a.place(bp, need), nil
	}

	if right.size == 0 {
		// bp is the last block: grow the heap under it.
		if _, err := a.sbrk(need - size); err == nil {
			a.putTags(bp, need, true)
			a.putEpilogue(bp + need)
			a.stats.ReallocInPlace++
			return p, nil
		}
		// Fall back to a move; a fit may still exist lower in the heap.
	}

	np, err := a.alloc(need)
	if err != nil {
		return Nil, err
	}
	copy(a.data[int(np):int(np)+n], a.data[bp:bp+min(size-format.Overhead, n)])
	a.free(bp)
	a.stats.ReallocMoved++
	return np, nil
}

// Bytes returns the usable payload of the allocated block at p, or nil for
// Nil. The slice aliases the heap and is invalidated by the next operation
// that grows it.
func (a *Allocator) Bytes(p Ptr) []byte {
	if p == Nil {
		return nil
	}
	b, ok := buf.Slice(a.data, int(p), a.UsableSize(p))
	if !ok {
		return nil
	}
	return b
}

// UsableSize returns the number of payload bytes in the block at p.
func (a *Allocator) UsableSize(p Ptr) int {
	if p == Nil {
		return 0
	}
	return a.sizeOf(int(p)) - format.Overhead
}

// Check verifies the whole heap: boundary tags, coalescing, free-list
// membership and size classes.
func (a *Allocator) Check() error {
	return verify.Heap(a.data, a.cfg.NumClasses)
}

// Report walks the heap and returns block and free-list statistics.
func (a *Allocator) Report() (verify.Report, error) {
	return verify.Walk(a.data, a.cfg.NumClasses)
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// HeapSize returns the current size of the heap region in bytes.
func (a *Allocator) HeapSize() int {
	return len(a.data)
}

// Config returns the resolved configuration.
func (a *Allocator) Config() Config {
	return a.cfg
}
