// Package format houses the low-level on-heap encoding shared by the allocator
// and the heap verifier: boundary tags, free-list link slots, the fixed layout
// of the sentinel/prologue area, and the size-class mapping. Everything here
// works on a plain []byte heap image addressed by byte offset.
package format

const (
	// WordSize is the width of every tag and link slot.
	WordSize = 8

	// Alignment is the payload alignment. Block sizes are always multiples of it.
	Alignment = 8

	// AlignmentMask is Alignment - 1.
	AlignmentMask = Alignment - 1

	// HeaderSize is the size of the leading boundary tag.
	HeaderSize = WordSize

	// FooterSize is the size of the trailing boundary tag.
	FooterSize = WordSize

	// Overhead is the per-block tag overhead (header + footer).
	Overhead = HeaderSize + FooterSize

	// LinkSize is the size of one free-list link slot (prev or next).
	LinkSize = WordSize

	// MinBlockSize is the smallest block that can hold both tags and both
	// free-list links: header | prev | next | footer.
	MinBlockSize = 2*HeaderSize + 2*LinkSize

	// AllocBit marks a tag as allocated. Bits 1 and 2 are reserved.
	AllocBit = 0x1

	// FlagMask covers the low bits of a tag that are never part of the size.
	FlagMask = Alignment - 1
)

// Free-list link slots, as offsets from the payload start of a free block.
const (
	PrevLinkOffset = 0
	NextLinkOffset = LinkSize
)

// Size-class parameters.
const (
	// MinClassShift is log2 of the smallest block size (bucket 0 starts at 16).
	MinClassShift = 4

	// DefaultNumClasses is the number of segregated lists used when no
	// configuration overrides it.
	DefaultNumClasses = 10

	// MaxNumClasses bounds configurable class counts (2^(4+58) covers int64).
	MaxNumClasses = 58
)

// Heap layout, offsets in bytes from the start of the heap image:
//
//	0                        head sentinel 0 (MinBlockSize)
//	...                      head sentinel n-1
//	n*MinBlockSize           shared tail sentinel (MinBlockSize)
//	(n+1)*MinBlockSize       prologue header | prologue footer
//	...                      heap blocks
//	brk-8                    epilogue header (size 0, allocated)

// SentinelArea returns the number of bytes reserved for n head sentinels plus
// the shared tail sentinel.
func SentinelArea(numClasses int) int {
	return (numClasses + 1) * MinBlockSize
}

// HeadSentinel returns the payload offset of the head sentinel for class i.
func HeadSentinel(i int) int {
	return i*MinBlockSize + HeaderSize
}

// TailSentinel returns the payload offset of the tail sentinel shared by all
// numClasses lists.
func TailSentinel(numClasses int) int {
	return numClasses*MinBlockSize + HeaderSize
}

// ProloguePayload returns the payload offset of the prologue block.
func ProloguePayload(numClasses int) int {
	return SentinelArea(numClasses) + HeaderSize
}

// FirstBlock returns the payload offset of the first block after the prologue.
func FirstBlock(numClasses int) int {
	return ProloguePayload(numClasses) + Overhead
}

// InitialHeapSize is the size of a freshly formatted heap before the first
// chunk is added: sentinels, prologue, and the epilogue header.
func InitialHeapSize(numClasses int) int {
	return SentinelArea(numClasses) + Overhead + HeaderSize
}
