package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/memlib"
	"github.com/joshuapare/heapkit/internal/format"
)

// ============================================================================
// Allocator Creation Utilities
// ============================================================================

// testConfig pins the chunk size so offsets do not depend on the host page size.
var testConfig = Config{
	Name:       "Test",
	NumClasses: format.DefaultNumClasses,
	ChunkSize:  4096,
}

// firstBlock is the payload offset of the first block under testConfig.
var firstBlock = format.FirstBlock(format.DefaultNumClasses)

// newTestAllocator creates an allocator over a fresh in-memory region.
// cfg may be nil to use testConfig.
func newTestAllocator(t testing.TB, cfg *Config) *Allocator {
	t.Helper()
	if cfg == nil {
		c := testConfig
		cfg = &c
	}
	a, err := New(memlib.NewMem(memlib.DefaultMaxHeap), nil, cfg)
	require.NoError(t, err, "failed to create allocator")
	return a
}

// newLimitedAllocator creates an allocator whose region can never exceed max bytes.
func newLimitedAllocator(t testing.TB, max int) *Allocator {
	t.Helper()
	c := testConfig
	a, err := New(memlib.NewLimited(memlib.NewMem(memlib.DefaultMaxHeap), max), nil, &c)
	require.NoError(t, err, "failed to create limited allocator")
	return a
}

// mustAlloc allocates n bytes and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, n int) Ptr {
	t.Helper()
	p, err := a.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotEqual(t, Nil, p, "Alloc(%d) returned Nil", n)
	return p
}

// ============================================================================
// Mock Dirty Tracker
// ============================================================================

// DirtyCall records a single Add() call.
type DirtyCall struct {
	Off int
	Len int
}

// MockDirtyTracker records all Add() calls for verification.
type MockDirtyTracker struct {
	Calls []DirtyCall
}

func newMockDirtyTracker() *MockDirtyTracker {
	return &MockDirtyTracker{Calls: make([]DirtyCall, 0, 32)}
}

// Add records a dirty region.
func (m *MockDirtyTracker) Add(off, length int) {
	m.Calls = append(m.Calls, DirtyCall{Off: off, Len: length})
}

// WasCalledAt returns true if Add() covered off.
func (m *MockDirtyTracker) WasCalledAt(off int) bool {
	for _, call := range m.Calls {
		if call.Off <= off && off < call.Off+call.Len {
			return true
		}
	}
	return false
}

// Reset clears all recorded calls.
func (m *MockDirtyTracker) Reset() {
	m.Calls = m.Calls[:0]
}

// ============================================================================
// Inspection
// ============================================================================

// listContents returns the payload offsets on class c's list, head to tail.
func listContents(a *Allocator, c int) []int {
	var out []int
	for bp := a.nextLink(a.heads[c]); bp != a.tail; bp = a.nextLink(bp) {
		out = append(out, bp)
	}
	return out
}

// freeBlocks returns every listed free block across all classes.
func freeBlocks(a *Allocator) []int {
	var out []int
	for c := range a.cfg.NumClasses {
		out = append(out, listContents(a, c)...)
	}
	return out
}

// assertInvariants runs the full heap verifier.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check(), "heap invariants violated")
}

// setupGrowCounter counts heap extensions made after the call.
func setupGrowCounter(a *Allocator) *int {
	growCount := 0
	a.onGrow = func(int) { growCount++ }
	return &growCount
}

// fill writes a repeating byte pattern derived from seed into b.
func fill(b []byte, seed byte) {
	for i := range b {
		b[i] = seed + byte(i)
	}
}

// requirePattern checks that b still holds the pattern written by fill.
func requirePattern(t testing.TB, b []byte, seed byte) {
	t.Helper()
	for i := range b {
		if b[i] != seed+byte(i) {
			require.Failf(t, "pattern mismatch", "byte %d: got 0x%02X want 0x%02X", i, b[i], seed+byte(i))
		}
	}
}
