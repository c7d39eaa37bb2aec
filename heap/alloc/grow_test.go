package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestGrow_WhenNothingFits(t *testing.T) {
	a := newTestAllocator(t, nil)
	grows := setupGrowCounter(a)

	// need = 5016 > 4096 free, so the heap grows by exactly need and the new
	// space merges with the free chunk below it.
	p := mustAlloc(t, a, 5000)
	assert.Equal(t, 1, *grows)
	assert.Equal(t, Ptr(firstBlock), p)
	assert.Equal(t, format.InitialHeapSize(10)+4096+5016, a.HeapSize())
	assert.Equal(t, 1, a.Stats().AllocSlowPath)

	// What is left is the old chunk's worth, at the top.
	assert.Equal(t, []int{firstBlock + 5016}, freeBlocks(a))
	assert.Equal(t, 4096, a.sizeOf(firstBlock+5016))
	assertInvariants(t, a)
}

func TestGrow_UsesChunkSizeForSmallNeeds(t *testing.T) {
	a := newTestAllocator(t, nil)
	whole := mustAlloc(t, a, 4096-format.Overhead)

	var increments []int
	a.onGrow = func(n int) { increments = append(increments, n) }

	mustAlloc(t, a, 8)
	assert.Equal(t, []int{4096}, increments)
	assert.Equal(t, format.InitialHeapSize(10)+2*4096, a.HeapSize())

	a.Free(whole)
	assertInvariants(t, a)
}

func TestGrow_EpilogueMoves(t *testing.T) {
	a := newTestAllocator(t, nil)

	for range 100 {
		mustAlloc(t, a, 500)
	}
	data := a.data
	tag := format.ReadTag(data, len(data)-format.HeaderSize)
	assert.Zero(t, format.TagSize(tag))
	assert.True(t, format.TagAllocated(tag))
	assert.Greater(t, a.Stats().GrowCalls, 1)
	assert.Equal(t, int64(a.HeapSize()-format.InitialHeapSize(10)), a.Stats().GrowBytes)
	assertInvariants(t, a)
}
