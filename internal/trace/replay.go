package trace

import (
	"context"
	"fmt"
	"time"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/memlib"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Options controls a replay.
type Options struct {
	// Provider backs the heap. It must be empty. Nil uses a fresh
	// memlib.Mem of DefaultMaxHeap bytes.
	Provider memlib.Provider

	// Dirty, if set, receives every metadata write. Used with file-backed
	// providers so the caller can flush the heap image afterwards.
	Dirty alloc.DirtyTracker

	// Config selects the allocator configuration. Nil uses alloc.DefaultConfig.
	Config *alloc.Config

	// Check runs the full heap verifier after every operation.
	Check bool
}

// Result summarizes a replay.
type Result struct {
	Name        string
	Ops         int
	PeakPayload int // largest sum of requested sizes live at once
	HeapSize    int // heap size at the end of the trace
	Utilization float64
	Elapsed     time.Duration
	Stats       alloc.Stats
}

// Throughput returns operations per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ops) / r.Elapsed.Seconds()
}

// block is the replay's record of one id.
type block struct {
	p    alloc.Ptr
	size int
}

type replayer struct {
	a      *alloc.Allocator
	blocks []block
	spans  spanSet
	live   int
	peak   int
}

// Replay runs tr against a new allocator. It stops at the first failed
// operation and returns an error naming it. Elapsed covers the operations
// and their payload checks, not allocator setup.
func Replay(ctx context.Context, tr *Trace, opts Options) (Result, error) {
	res := Result{Name: tr.Name}

	p := opts.Provider
	if p == nil {
		p = memlib.NewMem(memlib.DefaultMaxHeap)
	}
	a, err := alloc.New(p, opts.Dirty, opts.Config)
	if err != nil {
		return res, err
	}
	rp := &replayer{a: a, blocks: make([]block, tr.NumIDs)}

	start := time.Now()
	for i, op := range tr.Ops {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if err := rp.apply(op); err != nil {
			return res, fmt.Errorf("%s: op %d (%s): %w", tr.Name, i, op, err)
		}
		if opts.Check {
			if err := a.Check(); err != nil {
				return res, fmt.Errorf("%s: op %d (%s): %w", tr.Name, i, op, err)
			}
		}
		res.Ops++
	}
	res.Elapsed = time.Since(start)

	res.PeakPayload = rp.peak
	res.HeapSize = a.HeapSize()
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	res.Stats = a.Stats()

	logger.Debug("trace replayed",
		"trace", tr.Name,
		"ops", res.Ops,
		"peak", res.PeakPayload,
		"heap", res.HeapSize,
		"elapsed", res.Elapsed)
	return res, nil
}

func (rp *replayer) apply(op Op) error {
	b := &rp.blocks[op.ID]

	switch op.Kind {
	case OpAlloc:
		p, err := rp.a.Alloc(op.Size)
		if err != nil {
			return err
		}
		if err := rp.track(op.ID, p, op.Size); err != nil {
			return err
		}
		fillPattern(rp.a.Bytes(p)[:op.Size], op.ID)

	case OpRealloc:
		if err := rp.verify(op.ID); err != nil {
			return err
		}
		rp.untrack(op.ID)
		p, err := rp.a.Realloc(b.p, op.Size)
		if err != nil {
			return err
		}
		keep := min(b.size, op.Size)
		if p != alloc.Nil && !checkPattern(rp.a.Bytes(p)[:keep], op.ID) {
			return fmt.Errorf("%w: first %d bytes not preserved by resize", ErrIntegrity, keep)
		}
		if err := rp.track(op.ID, p, op.Size); err != nil {
			return err
		}
		if p != alloc.Nil {
			fillPattern(rp.a.Bytes(p)[:op.Size], op.ID)
		}

	case OpFree:
		if err := rp.verify(op.ID); err != nil {
			return err
		}
		rp.untrack(op.ID)
		rp.a.Free(b.p)
		*b = block{}
	}
	return nil
}

// track records p as id's payload after checking its alignment and that it
// overlaps no other live payload.
func (rp *replayer) track(id int, p alloc.Ptr, size int) error {
	rp.blocks[id] = block{p: p, size: size}
	if p == alloc.Nil {
		return nil
	}
	if p%format.Alignment != 0 {
		return fmt.Errorf("%w: 0x%X", ErrAlignment, p)
	}
	if other := rp.spans.add(span{lo: int(p), hi: int(p) + max(size, 1), id: id}); other >= 0 {
		return fmt.Errorf("%w: id %d at 0x%X (%d bytes) overlaps id %d", ErrOverlap, id, p, size, other)
	}
	rp.live += size
	rp.peak = max(rp.peak, rp.live)
	return nil
}

func (rp *replayer) untrack(id int) {
	b := rp.blocks[id]
	if b.p == alloc.Nil {
		return
	}
	rp.spans.remove(int(b.p))
	rp.live -= b.size
}

func (rp *replayer) verify(id int) error {
	b := rp.blocks[id]
	if b.p == alloc.Nil {
		return nil
	}
	if !checkPattern(rp.a.Bytes(b.p)[:b.size], id) {
		return fmt.Errorf("%w: id %d at 0x%X", ErrIntegrity, id, b.p)
	}
	return nil
}

func patternByte(id, i int) byte {
	return byte(id*131 + i)
}

func fillPattern(b []byte, id int) {
	for i := range b {
		b[i] = patternByte(id, i)
	}
}

func checkPattern(b []byte, id int) bool {
	for i := range b {
		if b[i] != patternByte(id, i) {
			return false
		}
	}
	return true
}
