// Package alloc provides a segregated free-list heap allocator over a
// growable byte region.
//
// # Overview
//
// The allocator manages one linear region supplied by a memlib.Provider. The
// region is self-describing: every block carries a boundary tag at each end,
// free blocks carry their free-list links inside their own payload, and the
// list heads live in sentinel blocks at the bottom of the region. No Go
// pointers are stored anywhere; every link is a byte offset. Because of that,
// a heap image can be written to a file and reattached later with Open.
//
// # Allocator Interface
//
//   - New(p, dt, cfg): format an empty provider and add the first chunk
//   - Alloc(n): return a Ptr to at least n usable bytes, 8-byte aligned
//   - Free(p): release a block and coalesce it with free neighbours
//   - Realloc(p, n): resize in place when possible, otherwise move
//   - Bytes(p): the usable payload of an allocated block
//
// # Block Layout
//
//	allocated: | header | payload ...              | footer |
//	free:      | header | prev | next | (unused)   | footer |
//
// Tags are 8 bytes: size | allocated bit. The smallest block is 32 bytes.
//
// # Size Classes
//
// The allocator keeps one LIFO list per class. Class i holds blocks sized
// [2^(i+4), 2^(i+5)); the last class is open-ended. With the default ten
// classes:
//
//	Class 0:  16 -   31 bytes
//	Class 1:  32 -   63 bytes
//	Class 2:  64 -  127 bytes
//	...
//	Class 8: 4096 - 8191 bytes
//	Class 9: 8192+      bytes
//
// Allocation searches the request's class first-fit and escalates to larger
// classes. All lists end at one shared tail sentinel.
//
// # Heap Growth
//
// When nothing fits, the heap is extended by max(need, ChunkSize) bytes; the
// new space becomes one free block that is immediately coalesced with a free
// block at the old top of the heap. If the provider refuses to grow, the call
// returns an error wrapping ErrNoSpace and the heap is left unchanged.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Wrap a shared allocator in Locked
// or synchronize externally.
//
// # Related Packages
//
//   - github.com/joshuapare/heapkit/heap/memlib: backing stores
//   - github.com/joshuapare/heapkit/heap/dirty: dirty page tracking for file-backed heaps
//   - github.com/joshuapare/heapkit/heap/verify: heap consistency checks
package alloc
