package trace

import (
	"fmt"
	"math/rand"
)

// GenOptions controls Generate.
type GenOptions struct {
	Ops         int     // target operation count, including the final frees; may be exceeded by one
	MaxSize     int     // largest request; zero means 4096
	ReallocRate float64 // share of operations on live ids that resize
	BigRate     float64 // share of allocations drawn up to 8*MaxSize
}

// DefaultGenOptions is used by heapctl gen.
var DefaultGenOptions = GenOptions{
	Ops:         2000,
	MaxSize:     4096,
	ReallocRate: 0.3,
	BigRate:     0.02,
}

// Generate returns a random trace that frees every id before it ends.
// The same seed and options always produce the same trace.
func Generate(seed int64, opts GenOptions) *Trace {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 4096
	}
	rng := rand.New(rand.NewSource(seed))
	size := func() int {
		if rng.Float64() < opts.BigRate {
			return 1 + rng.Intn(8*opts.MaxSize)
		}
		return 1 + rng.Intn(opts.MaxSize)
	}

	tr := &Trace{Name: fmt.Sprintf("random-%d", seed), Weight: 1}
	var live []int
	payload := make(map[int]int)
	cur, peak := 0, 0

	for len(tr.Ops)+len(live) < opts.Ops {
		if len(live) == 0 || rng.Intn(2) == 0 {
			id := tr.NumIDs
			tr.NumIDs++
			n := size()
			tr.Ops = append(tr.Ops, Op{Kind: OpAlloc, ID: id, Size: n})
			live = append(live, id)
			payload[id] = n
			cur += n
		} else {
			i := rng.Intn(len(live))
			id := live[i]
			if rng.Float64() < opts.ReallocRate {
				n := size()
				tr.Ops = append(tr.Ops, Op{Kind: OpRealloc, ID: id, Size: n})
				cur += n - payload[id]
				payload[id] = n
			} else {
				tr.Ops = append(tr.Ops, Op{Kind: OpFree, ID: id})
				cur -= payload[id]
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		}
		peak = max(peak, cur)
	}
	for _, id := range live {
		tr.Ops = append(tr.Ops, Op{Kind: OpFree, ID: id})
	}

	tr.SuggestedHeapSize = peak
	return tr
}
