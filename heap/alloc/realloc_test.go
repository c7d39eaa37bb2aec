package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestRealloc_NilAllocates(t *testing.T) {
	a := newTestAllocator(t, nil)
	p, err := a.Realloc(Nil, 64)
	require.NoError(t, err)
	assert.Equal(t, Ptr(firstBlock), p)
	assert.GreaterOrEqual(t, a.UsableSize(p), 64)
}

func TestRealloc_ZeroFrees(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 64)

	q, err := a.Realloc(p, 0)
	require.NoError(t, err)
	assert.Equal(t, Nil, q)
	assert.Equal(t, []int{firstBlock}, freeBlocks(a), "freed block merged back into the chunk")
	assertInvariants(t, a)
}

func TestRealloc_Negative(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 64)
	_, err := a.Realloc(p, -5)
	require.ErrorIs(t, err, ErrBadSize)
	assert.Equal(t, 64, a.UsableSize(p))
}

func TestRealloc_ShrinkInPlace(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 1000)
	mustAlloc(t, a, 8)
	fill(a.Bytes(p), 7)

	q, err := a.Realloc(p, 100)
	require.NoError(t, err)
	assert.Equal(t, p, q)
	assert.Equal(t, 104, a.UsableSize(q))
	requirePattern(t, a.Bytes(q), 7)

	// 1016 - 120 bytes were split off and listed.
	assert.Contains(t, freeBlocks(a), int(p)+120)
	assert.Equal(t, 896, a.sizeOf(int(p)+120))
	assertInvariants(t, a)
}

func TestRealloc_ShrinkTooSmallToSplit(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 1000)
	mustAlloc(t, a, 8)

	q, err := a.Realloc(p, 990)
	require.NoError(t, err)
	assert.Equal(t, p, q)
	assert.Equal(t, 1000, a.UsableSize(q))
	assertInvariants(t, a)
}

func TestRealloc_ShrinkMergesWithFreeRight(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 1000)
	next := mustAlloc(t, a, 200)
	mustAlloc(t, a, 8)
	a.Free(next)

	q, err := a.Realloc(p, 100)
	require.NoError(t, err)
	assert.Equal(t, p, q)
	// Split remainder and the freed neighbour are one block.
	assert.Equal(t, 896+216, a.sizeOf(int(p)+120))
	assertInvariants(t, a)
}

func TestRealloc_GrowIntoFreeRightNeighbour(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 100)
	next := mustAlloc(t, a, 100)
	mustAlloc(t, a, 100)
	fill(a.Bytes(p), 3)
	a.Free(next)

	q, err := a.Realloc(p, 200)
	require.NoError(t, err)
	assert.Equal(t, p, q, "absorbs the free neighbour")
	// 240 - 224 = 16 bytes left over, too small to split.
	assert.Equal(t, 224, a.UsableSize(q))
	requirePattern(t, a.Bytes(q)[:104], 3)
	assert.Equal(t, 1, a.Stats().ReallocInPlace)
	assertInvariants(t, a)
}

func TestRealloc_GrowAtEpilogue(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 4096-format.Overhead)
	fill(a.Bytes(p), 11)

	var increments []int
	a.onGrow = func(n int) { increments = append(increments, n) }

	q, err := a.Realloc(p, 8000)
	require.NoError(t, err)
	assert.Equal(t, p, q)
	assert.Equal(t, []int{8016 - 4096}, increments, "extends by exactly the shortfall")
	assert.Equal(t, 8000, a.UsableSize(q))
	assert.Equal(t, format.InitialHeapSize(10)+8016, a.HeapSize())
	requirePattern(t, a.Bytes(q)[:4080], 11)
	assertInvariants(t, a)
}

func TestRealloc_MovePreservesContent(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 100)
	mustAlloc(t, a, 100)
	fill(a.Bytes(p), 42)

	q, err := a.Realloc(p, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, p, q)
	requirePattern(t, a.Bytes(q)[:104], 42)
	assert.Contains(t, freeBlocks(a), int(p), "old block released")
	assert.Equal(t, 1, a.Stats().ReallocMoved)
	assertInvariants(t, a)
}

func TestRealloc_ShrinkThenGrowKeepsPrefix(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 200)
	mustAlloc(t, a, 8)
	fill(a.Bytes(p), 99)

	p, err := a.Realloc(p, 50)
	require.NoError(t, err)
	p, err = a.Realloc(p, 400)
	require.NoError(t, err)

	requirePattern(t, a.Bytes(p)[:50], 99)
	assertInvariants(t, a)
}

func TestRealloc_FailureLeavesBlockIntact(t *testing.T) {
	a := newLimitedAllocator(t, format.InitialHeapSize(10)+4096)
	p := mustAlloc(t, a, 100)
	mustAlloc(t, a, 100)
	fill(a.Bytes(p), 5)

	q, err := a.Realloc(p, 10000)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, Nil, q)
	assert.Equal(t, 104, a.UsableSize(p))
	requirePattern(t, a.Bytes(p), 5)
	assertInvariants(t, a)
}

func TestRealloc_EpilogueGrowFailureFallsBackToMove(t *testing.T) {
	// The region cannot grow past the first chunk.
	a := newLimitedAllocator(t, format.InitialHeapSize(10)+4096)

	low := mustAlloc(t, a, 2504) // 2520-byte block
	top := mustAlloc(t, a, 1560) // the remaining 1576 bytes, last in the heap
	a.Free(low)
	fill(a.Bytes(top), 1)

	// top cannot grow at the epilogue, but the hole left by low fits.
	q, err := a.Realloc(top, 2000)
	require.NoError(t, err)
	assert.Equal(t, low, q)
	requirePattern(t, a.Bytes(q)[:1560], 1)
	assert.Equal(t, 1, a.Stats().ReallocMoved)
	assertInvariants(t, a)
}

func TestRealloc_MoveDoesNotCountAsAllocOrFree(t *testing.T) {
	a := newTestAllocator(t, nil)
	p := mustAlloc(t, a, 2040)
	mustAlloc(t, a, 2040) // right neighbour of p stays allocated

	before := a.Stats()
	q, err := a.Realloc(p, 4000)
	require.NoError(t, err)
	require.NotEqual(t, p, q)

	after := a.Stats()
	assert.Equal(t, before.AllocCalls, after.AllocCalls)
	assert.Equal(t, before.FreeCalls, after.FreeCalls)
	assert.Equal(t, before.ReallocCalls+1, after.ReallocCalls)
	assert.Equal(t, 1, after.ReallocMoved)
	assertInvariants(t, a)
}
