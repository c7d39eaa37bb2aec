package dirty

import (
	"context"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is used when the caller passes a non-positive page size.
	standardPageSize = 4096
)

// Range represents a dirty byte range (heap offsets).
type Range struct {
	Off int64 // Offset from the start of the heap
	Len int64 // Length in bytes
}

// Tracker accumulates dirty ranges and flushes them efficiently.
type Tracker struct {
	ranges   []Range // raw ranges, coalesced at flush time
	pageSize int64
}

// NewTracker creates a dirty tracker that aligns ranges to pageSize.
func NewTracker(pageSize int) *Tracker {
	ps := int64(pageSize)
	if ps <= 0 {
		ps = standardPageSize
	}
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: ps,
	}
}

// Add records a dirty range. It only appends; alignment and merging happen
// at flush time.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Pending reports whether any ranges are waiting to be flushed.
func (t *Tracker) Pending() bool {
	return len(t.ranges) > 0
}

// Flush writes every dirty page of data (a memory-mapped heap image) to
// disk and clears the tracker. Ranges beyond len(data) are skipped.
//
// If ctx is cancelled midway, some pages may already have been flushed; the
// tracker keeps its ranges so the call can be retried.
func (t *Tracker) Flush(ctx context.Context, data []byte) error {
	if len(t.ranges) == 0 || len(data) == 0 {
		t.Reset()
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.flushRanges(ctx, data); err != nil {
		return err
	}
	t.Reset()
	return nil
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Ranges returns the coalesced, page-aligned ranges that Flush would write.
func (t *Tracker) Ranges() []Range {
	return t.coalesce()
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize

		end := r.Off + r.Len
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.Off+current.Len {
			end := current.Off + current.Len
			nextEnd := next.Off + next.Len
			if nextEnd > end {
				end = nextEnd
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}

// clip bounds r to data, returning ok=false when nothing remains.
func clip(r Range, n int) (int, int, bool) {
	start := int(r.Off)
	end := int(r.Off + r.Len)
	if start >= n {
		return 0, 0, false
	}
	if end > n {
		end = n
	}
	return start, end, true
}
