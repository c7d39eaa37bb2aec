// Package dirty provides page-level dirty tracking for file-backed heaps.
//
// # Overview
//
// The allocator reports every metadata write (boundary tags, free-list
// links, the epilogue) to a DirtyTracker. When the heap lives in a
// memory-mapped file, the Tracker turns those writes into page-aligned,
// coalesced ranges and flushes only those pages with msync.
//
// # Usage
//
//	fp, _ := memlib.OpenFile(path, 0)
//	dt := dirty.NewTracker(fp.PageSize())
//	a, _ := alloc.New(fp, dt, nil)
//	...
//	err := dt.Flush(ctx, fp.Bytes())
//
// Payload bytes written by callers are not tracked; call the provider's Sync
// to persist them.
//
// # Thread Safety
//
// Tracker is NOT thread-safe, matching the allocator it serves.
package dirty
