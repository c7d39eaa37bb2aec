package alloc

// Ptr is the payload offset of an allocated block within the heap region.
type Ptr = uint64

// Nil is the null Ptr. Offset 0 lies inside the first sentinel and is never
// handed out.
const Nil Ptr = 0

// Stats holds allocator counters for testing and instrumentation.
type Stats struct {
	AllocCalls     int   // Total Alloc() calls with n > 0; moving reallocs are not counted
	AllocFastPath  int   // Allocations served from the free lists
	AllocSlowPath  int   // Allocations that required growing the heap
	FreeCalls      int   // Total Free() calls with a non-nil pointer; moving reallocs are not counted
	ReallocCalls   int   // Total Realloc() calls
	ReallocInPlace int   // Reallocs that kept the same address
	ReallocMoved   int   // Reallocs that fell back to allocate + copy
	GrowCalls      int   // Number of heap extensions
	GrowBytes      int64 // Total bytes added to the heap
	SplitCount     int   // Blocks split during placement
	CoalesceLeft   int   // Merges with the left neighbour
	CoalesceRight  int   // Merges with the right neighbour
}
