package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/memlib"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// sbrk extends the provider by incr bytes and refreshes the cached region.
// It returns the old break, which is also the payload offset of the block
// that will cover the new space: the old epilogue header becomes its header.
func (a *Allocator) sbrk(incr int) (int, error) {
	old, err := a.p.Sbrk(incr)
	if err != nil {
		logger.Error("heap exhausted",
			"request", incr,
			"heap", memlib.HeapSize(a.p),
			"err", err)
		return 0, fmt.Errorf("%w: extend by %d bytes: %w", ErrNoSpace, incr, err)
	}
	a.data = a.p.Bytes()
	a.stats.GrowCalls++
	a.stats.GrowBytes += int64(incr)
	if a.onGrow != nil {
		a.onGrow(incr)
	}
	return old, nil
}

// extendHeap grows the heap by at least need bytes and returns the
// resulting free block, already coalesced and listed.
func (a *Allocator) extendHeap(need int) (int, error) {
	size := max(format.Align8(need), a.cfg.ChunkSize)

	bp, err := a.sbrk(size)
	if err != nil {
		return 0, err
	}

	a.putTags(bp, size, false)
	a.putEpilogue(bp + size)

	logger.Debug("heap grow",
		"need", need,
		"bytes", size,
		"heap", len(a.data),
		"grows", a.stats.GrowCalls)

	return a.coalesce(bp), nil
}
