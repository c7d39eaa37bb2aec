package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// ValidationError describes the first broken invariant found.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Report summarises a heap walk.
type Report struct {
	Blocks      int // blocks between prologue and epilogue
	FreeBlocks  int
	FreeBytes   int
	AllocBlocks int
	AllocBytes  int
	LargestFree int
	ListLengths []int // free blocks per class
}

// Heap validates all heap invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func Heap(data []byte, numClasses int) error {
	_, err := Walk(data, numClasses)
	return err
}

// Walk validates the heap and returns a summary of its blocks.
func Walk(data []byte, numClasses int) (Report, error) {
	var rep Report
	if numClasses < 1 || numClasses > format.MaxNumClasses {
		return rep, &ValidationError{
			Type:    "Layout",
			Message: fmt.Sprintf("class count %d out of range", numClasses),
			Offset:  -1,
		}
	}
	if err := Sentinels(data, numClasses); err != nil {
		return rep, err
	}
	free, err := blocks(data, numClasses, &rep)
	if err != nil {
		return rep, err
	}
	if err := freeLists(data, numClasses, free, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}

// Sentinels checks the list sentinels and the prologue.
func Sentinels(data []byte, numClasses int) error {
	if len(data) < format.InitialHeapSize(numClasses) {
		return &ValidationError{
			Type:    "Layout",
			Message: fmt.Sprintf("heap too small: %d bytes (need %d)", len(data), format.InitialHeapSize(numClasses)),
			Offset:  -1,
		}
	}

	for i := 0; i <= numClasses; i++ {
		bp := format.HeadSentinel(i)
		kind := "head sentinel"
		if i == numClasses {
			kind = "tail sentinel"
		}
		if err := expectTags(data, bp, format.MinBlockSize, kind); err != nil {
			return err
		}
	}
	return expectTags(data, format.ProloguePayload(numClasses), format.Overhead, "prologue")
}

func expectTags(data []byte, bp, size int, kind string) error {
	want := format.Pack(size, true)
	hdr := format.ReadTag(data, format.HeaderOffset(bp))
	ftr := format.ReadTag(data, format.FooterOffset(bp, size))
	if hdr != want || ftr != want {
		return &ValidationError{
			Type:    "Sentinel",
			Message: fmt.Sprintf("%s tags header=0x%X footer=0x%X, want 0x%X", kind, hdr, ftr, want),
			Offset:  format.HeaderOffset(bp),
		}
	}
	return nil
}

// blocks walks the implicit block list and returns the set of free payloads.
func blocks(data []byte, numClasses int, rep *Report) (map[int]bool, error) {
	free := make(map[int]bool)
	prevFree := false
	sum := 0

	bp := format.FirstBlock(numClasses)
	for {
		blk, next, err := format.NextBlock(data, bp)
		if err != nil {
			return nil, &ValidationError{Type: "Block", Message: err.Error(), Offset: format.HeaderOffset(bp)}
		}
		if blk.Size == 0 {
			if !blk.Allocated {
				return nil, &ValidationError{Type: "Epilogue", Message: "epilogue not marked allocated", Offset: format.HeaderOffset(bp)}
			}
			if format.HeaderOffset(bp) != len(data)-format.HeaderSize {
				return nil, &ValidationError{
					Type:    "Epilogue",
					Message: fmt.Sprintf("epilogue found before end of heap (heap size %d)", len(data)),
					Offset:  format.HeaderOffset(bp),
				}
			}
			break
		}

		switch {
		case blk.Header != blk.Footer:
			return nil, &ValidationError{
				Type:    "BoundaryTag",
				Message: fmt.Sprintf("header 0x%X != footer 0x%X", blk.Header, blk.Footer),
				Offset:  format.HeaderOffset(bp),
			}
		case !format.IsAligned(bp) || !format.IsAligned(blk.Size):
			return nil, &ValidationError{
				Type:    "Alignment",
				Message: fmt.Sprintf("payload %d size %d not %d-byte aligned", bp, blk.Size, format.Alignment),
				Offset:  format.HeaderOffset(bp),
			}
		case blk.Size < format.MinBlockSize:
			return nil, &ValidationError{
				Type:    "BlockSize",
				Message: fmt.Sprintf("size %d below minimum %d", blk.Size, format.MinBlockSize),
				Offset:  format.HeaderOffset(bp),
			}
		case !blk.Allocated && prevFree:
			return nil, &ValidationError{
				Type:    "Coalesce",
				Message: "adjacent free blocks",
				Offset:  format.HeaderOffset(bp),
			}
		}

		rep.Blocks++
		sum += blk.Size
		if blk.Allocated {
			rep.AllocBlocks++
			rep.AllocBytes += blk.Size
		} else {
			free[bp] = true
			rep.FreeBlocks++
			rep.FreeBytes += blk.Size
			rep.LargestFree = max(rep.LargestFree, blk.Size)
		}
		prevFree = !blk.Allocated
		bp = next
	}

	if want := len(data) - format.InitialHeapSize(numClasses); sum != want {
		return nil, &ValidationError{
			Type:    "HeapSize",
			Message: fmt.Sprintf("blocks sum to %d bytes, heap holds %d", sum, want),
			Offset:  -1,
		}
	}
	return free, nil
}

// freeLists walks every class list from its head sentinel to the shared tail.
func freeLists(data []byte, numClasses int, free map[int]bool, rep *Report) error {
	tail := format.TailSentinel(numClasses)
	seen := make(map[int]int, len(free))
	rep.ListLengths = make([]int, numClasses)

	for c := range numClasses {
		head := format.HeadSentinel(c)
		if p := int(format.ReadU64(data, head+format.PrevLinkOffset)); p != 0 {
			return &ValidationError{
				Type:    "FreeList",
				Message: fmt.Sprintf("class %d head has prev link %d", c, p),
				Offset:  format.HeaderOffset(head),
			}
		}

		prev := head
		node := int(format.ReadU64(data, head+format.NextLinkOffset))
		for steps := 0; node != tail; steps++ {
			if steps > len(free) {
				return &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("class %d list does not reach the tail (cycle?)", c),
					Offset:  format.HeaderOffset(head),
				}
			}
			if !free[node] {
				return &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("class %d lists %d, which is not a free block", c, node),
					Offset:  format.HeaderOffset(node),
				}
			}
			if other, dup := seen[node]; dup {
				return &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("block listed twice (classes %d and %d)", other, c),
					Offset:  format.HeaderOffset(node),
				}
			}
			seen[node] = c

			size := format.TagSize(format.ReadTag(data, format.HeaderOffset(node)))
			if got := format.SizeClass(size, numClasses); got != c {
				return &ValidationError{
					Type: "SizeClass",
					Message: fmt.Sprintf("size %d belongs to class %d (from %d bytes), found in %d",
						size, got, format.ClassLowerBound(got), c),
					Offset: format.HeaderOffset(node),
				}
			}
			if back := int(format.ReadU64(data, node+format.PrevLinkOffset)); back != prev {
				return &ValidationError{
					Type:    "FreeList",
					Message: fmt.Sprintf("prev link %d, expected %d", back, prev),
					Offset:  format.HeaderOffset(node),
				}
			}

			rep.ListLengths[c]++
			prev = node
			node = int(format.ReadU64(data, node+format.NextLinkOffset))
		}
	}

	if len(seen) != len(free) {
		for bp := range free {
			if _, ok := seen[bp]; !ok {
				return &ValidationError{
					Type:    "FreeList",
					Message: "free block missing from every list",
					Offset:  format.HeaderOffset(bp),
				}
			}
		}
	}
	return nil
}
