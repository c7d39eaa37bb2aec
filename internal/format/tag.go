package format

// Pack encodes a block size and allocated flag into a boundary tag.
func Pack(size int, allocated bool) uint64 {
	t := uint64(size)
	if allocated {
		t |= AllocBit
	}
	return t
}

// TagSize extracts the block size from a tag.
func TagSize(t uint64) int {
	return int(t &^ FlagMask)
}

// TagAllocated reports whether a tag has the allocated bit set.
func TagAllocated(t uint64) bool {
	return t&AllocBit != 0
}

// HeaderOffset returns the offset of the header tag for the block whose
// payload starts at bp.
func HeaderOffset(bp int) int {
	return bp - HeaderSize
}

// FooterOffset returns the offset of the footer tag of a block of the given
// size whose payload starts at bp.
func FooterOffset(bp, size int) int {
	return bp + size - Overhead
}

// PrevFooterOffset returns the offset of the footer of the block physically
// to the left of bp.
func PrevFooterOffset(bp int) int {
	return bp - Overhead
}

// ReadTag reads the tag word at off.
func ReadTag(b []byte, off int) uint64 {
	return ReadU64(b, off)
}

// PutTag writes a packed tag at off.
func PutTag(b []byte, off, size int, allocated bool) {
	PutU64(b, off, Pack(size, allocated))
}

// PutTags writes matching header and footer tags for the block at bp.
func PutTags(b []byte, bp, size int, allocated bool) {
	t := Pack(size, allocated)
	PutU64(b, HeaderOffset(bp), t)
	PutU64(b, FooterOffset(bp, size), t)
}
