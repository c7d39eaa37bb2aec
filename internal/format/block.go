package format

import "fmt"

// Block is a decoded view of one heap block.
//
// Block layout (little-endian 64-bit words):
//
//	Offset      Size  Description
//	bp-8        8     Header: size | allocated bit
//	bp          8     prev link (free blocks only)
//	bp+8        8     next link (free blocks only)
//	...               payload (allocated blocks)
//	bp+size-16  8     Footer: copy of the header
type Block struct {
	Payload   int // Payload offset (the block's identity)
	Size      int // Total size including both tags
	Allocated bool
	Header    uint64
	Footer    uint64
}

// NextBlock decodes the block whose payload starts at bp and returns it with
// the payload offset of the physically following block. A size-0 header is
// the epilogue; it is returned with next == bp so callers stop walking.
func NextBlock(b []byte, bp int) (Block, int, error) {
	hdr := HeaderOffset(bp)
	if hdr < 0 || hdr+HeaderSize > len(b) {
		return Block{}, 0, fmt.Errorf("block at %d: %w", bp, ErrTruncated)
	}
	h := ReadTag(b, hdr)
	size := TagSize(h)
	if size == 0 {
		return Block{Payload: bp, Allocated: TagAllocated(h), Header: h}, bp, nil
	}
	if size < Overhead {
		return Block{}, 0, fmt.Errorf("block at %d: size %d: %w", bp, size, ErrBadTag)
	}
	ftr := FooterOffset(bp, size)
	if ftr+FooterSize > len(b) {
		return Block{}, 0, fmt.Errorf("block at %d: footer at %d: %w", bp, ftr, ErrTruncated)
	}
	return Block{
		Payload:   bp,
		Size:      size,
		Allocated: TagAllocated(h),
		Header:    h,
		Footer:    ReadTag(b, ftr),
	}, bp + size, nil
}
