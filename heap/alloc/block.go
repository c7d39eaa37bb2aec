package alloc

import "github.com/joshuapare/heapkit/internal/format"

// blockState distinguishes the two interpretations of a block's payload.
type blockState uint8

const (
	// blockAllocated payload bytes belong to the caller.
	blockAllocated blockState = iota
	// blockFree payload starts with the prev and next list links.
	blockFree
)

// blockView is a decoded block at payload offset bp.
type blockView struct {
	bp    int
	size  int
	state blockState
}

// links returns the free-list neighbours of a free block. ok is false for
// allocated blocks, whose payload must not be read as links.
func (v blockView) links(a *Allocator) (prev, next int, ok bool) {
	if v.state != blockFree {
		return 0, 0, false
	}
	return a.prevLink(v.bp), a.nextLink(v.bp), true
}

// view decodes the block whose payload starts at bp.
func (a *Allocator) view(bp int) blockView {
	tag := format.ReadTag(a.data, format.HeaderOffset(bp))
	v := blockView{bp: bp, size: format.TagSize(tag), state: blockAllocated}
	if !format.TagAllocated(tag) {
		v.state = blockFree
	}
	return v
}

// leftFooter returns the tag in the footer of the block physically before bp.
func (a *Allocator) leftFooter(bp int) uint64 {
	return format.ReadTag(a.data, format.PrevFooterOffset(bp))
}

// sizeOf returns the block size recorded in bp's header.
func (a *Allocator) sizeOf(bp int) int {
	return format.TagSize(format.ReadTag(a.data, format.HeaderOffset(bp)))
}

// putTags writes matching header and footer for bp and marks them dirty.
func (a *Allocator) putTags(bp, size int, allocated bool) {
	format.PutTags(a.data, bp, size, allocated)
	a.markDirty(format.HeaderOffset(bp), format.HeaderSize)
	a.markDirty(format.FooterOffset(bp, size), format.FooterSize)
}

// putEpilogue writes the zero-size allocated header that terminates the heap
// at the block boundary bp.
func (a *Allocator) putEpilogue(bp int) {
	off := format.HeaderOffset(bp)
	format.PutTag(a.data, off, 0, true)
	a.markDirty(off, format.HeaderSize)
}

// prevLink and nextLink read list links. They are valid on free blocks and
// on sentinels only.
func (a *Allocator) prevLink(bp int) int {
	return int(format.ReadU64(a.data, bp+format.PrevLinkOffset))
}

func (a *Allocator) nextLink(bp int) int {
	return int(format.ReadU64(a.data, bp+format.NextLinkOffset))
}

func (a *Allocator) setPrevLink(bp, prev int) {
	format.PutU64(a.data, bp+format.PrevLinkOffset, uint64(prev))
	a.markDirty(bp+format.PrevLinkOffset, format.LinkSize)
}

func (a *Allocator) setNextLink(bp, next int) {
	format.PutU64(a.data, bp+format.NextLinkOffset, uint64(next))
	a.markDirty(bp+format.NextLinkOffset, format.LinkSize)
}

func (a *Allocator) markDirty(off, length int) {
	if a.dt != nil {
		a.dt.Add(off, length)
	}
}
