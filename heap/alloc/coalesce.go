package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block bp with any free physical neighbours,
// inserts the result into its class list and returns its payload offset.
// The prologue and epilogue are tagged allocated, so bp always has two
// readable neighbours.
func (a *Allocator) coalesce(bp int) int {
	size := a.sizeOf(bp)
	leftTag := a.leftFooter(bp)
	right := a.view(bp + size)
	leftFree := !format.TagAllocated(leftTag)

	switch {
	case !leftFree && right.state == blockAllocated:
		// nothing to merge

	case !leftFree && right.state == blockFree:
		a.remove(right.bp)
		size += right.size
		a.putTags(bp, size, false)
		a.stats.CoalesceRight++

	case leftFree && right.state == blockAllocated:
		left := bp - format.TagSize(leftTag)
		a.remove(left)
		size += format.TagSize(leftTag)
		bp = left
		a.putTags(bp, size, false)
		a.stats.CoalesceLeft++

	default:
		left := bp - format.TagSize(leftTag)
		a.remove(left)
		a.remove(right.bp)
		size += format.TagSize(leftTag) + right.size
		bp = left
		a.putTags(bp, size, false)
		a.stats.CoalesceLeft++
		a.stats.CoalesceRight++
	}

	a.insert(bp)
	return bp
}
