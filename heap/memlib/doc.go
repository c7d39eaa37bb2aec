// Package memlib provides backing stores for the heap allocator.
//
// A Provider models the classic sbrk interface: a single contiguous region
// that starts at offset 0 and only grows at the top. The allocator addresses
// every byte by its offset into Bytes(), so a provider is free to move the
// region in memory (the file-backed provider remaps on growth) as long as
// offsets stay stable.
//
// # Implementations
//
//   - Mem: in-memory region with a fixed maximum, reserved up front so that
//     growth never moves it. This mirrors the CS:APP memlib model.
//   - File: region backed by a file, memory-mapped on unix via
//     golang.org/x/sys/unix and grown by ftruncate + remap.
//   - Limited: wraps another provider and refuses growth past a byte budget.
//
// Providers are not safe for concurrent use.
package memlib
