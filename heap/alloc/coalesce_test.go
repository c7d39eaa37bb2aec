package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layoutABCD allocates four adjacent 120-byte blocks followed by the free
// remainder of the first chunk.
func layoutABCD(t *testing.T) (*Allocator, [4]Ptr) {
	t.Helper()
	a := newTestAllocator(t, nil)
	var ps [4]Ptr
	for i := range ps {
		ps[i] = mustAlloc(t, a, 100)
	}
	for i := 1; i < len(ps); i++ {
		require.Equal(t, ps[i-1]+120, ps[i], "blocks must be adjacent")
	}
	return a, ps
}

func TestCoalesce_NeitherNeighbourFree(t *testing.T) {
	a, ps := layoutABCD(t)

	a.Free(ps[1])

	v := a.view(int(ps[1]))
	assert.Equal(t, blockFree, v.state)
	assert.Equal(t, 120, v.size)
	assert.Contains(t, freeBlocks(a), int(ps[1]))
	assert.Zero(t, a.Stats().CoalesceLeft+a.Stats().CoalesceRight)
	assertInvariants(t, a)
}

func TestCoalesce_RightNeighbourFree(t *testing.T) {
	a, ps := layoutABCD(t)

	a.Free(ps[2])
	a.Free(ps[1])

	v := a.view(int(ps[1]))
	assert.Equal(t, blockFree, v.state)
	assert.Equal(t, 240, v.size)
	assert.NotContains(t, freeBlocks(a), int(ps[2]), "absorbed block must leave its list")
	assert.Equal(t, 1, a.Stats().CoalesceRight)
	assertInvariants(t, a)
}

func TestCoalesce_LeftNeighbourFree(t *testing.T) {
	a, ps := layoutABCD(t)

	a.Free(ps[0])
	a.Free(ps[1])

	v := a.view(int(ps[0]))
	assert.Equal(t, blockFree, v.state)
	assert.Equal(t, 240, v.size, "merged block keeps the left address")
	assert.NotContains(t, freeBlocks(a), int(ps[1]))
	assert.Equal(t, 1, a.Stats().CoalesceLeft)
	assertInvariants(t, a)
}

func TestCoalesce_BothNeighboursFree(t *testing.T) {
	a, ps := layoutABCD(t)

	a.Free(ps[0])
	a.Free(ps[2])
	a.Free(ps[1])

	v := a.view(int(ps[0]))
	assert.Equal(t, 360, v.size)
	blocks := freeBlocks(a)
	assert.Contains(t, blocks, int(ps[0]))
	assert.NotContains(t, blocks, int(ps[1]))
	assert.NotContains(t, blocks, int(ps[2]))
	assertInvariants(t, a)

	// The merged block serves a request that none of the parts could.
	p := mustAlloc(t, a, 340)
	assert.Equal(t, ps[0], p)
}

func TestCoalesce_LastBlockJoinsRemainder(t *testing.T) {
	a, ps := layoutABCD(t)

	a.Free(ps[3])

	v := a.view(int(ps[3]))
	assert.Equal(t, 4096-3*120, v.size)
	assert.Equal(t, []int{int(ps[3])}, freeBlocks(a))
	assertInvariants(t, a)
}

func TestCoalesce_AnyFreeOrder(t *testing.T) {
	orders := [][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2},
		{1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, order := range orders {
		a, ps := layoutABCD(t)
		for _, i := range order {
			a.Free(ps[i])
			assertInvariants(t, a)
		}
		assert.Equal(t, 360, a.sizeOf(int(ps[0])), "order %v", order)
	}
}

func TestBlockView_LinksOnlyOnFreeBlocks(t *testing.T) {
	a, ps := layoutABCD(t)

	_, _, ok := a.view(int(ps[1])).links(a)
	assert.False(t, ok, "allocated payload is not links")

	a.Free(ps[1])
	prev, next, ok := a.view(int(ps[1])).links(a)
	require.True(t, ok)
	assert.Equal(t, a.heads[a.classOf(120)], prev)
	assert.Equal(t, a.tail, next)
}
