package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
// The allocator depends only on this; flushing is the owner's business.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the heap, length is the number of bytes.
	Add(off, length int)
}
