// Package verify provides consistency checks for heap images produced by
// heap/alloc. The checks read only the raw bytes, so they can be pointed at
// a live allocator, a file-backed image on disk, or a hand-built fixture.
//
// Checked invariants:
//
//   - sentinel and prologue tags are intact, the epilogue closes the heap
//   - every block's header equals its footer
//   - no two physically adjacent blocks are free
//   - every free block sits in exactly one list, once; no allocated block is listed
//   - block sizes between prologue and epilogue add up to the heap size
//   - each listed block's size maps to the class of the list holding it
package verify
