package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestPlace_SplitRemainderIsListed(t *testing.T) {
	a := newTestAllocator(t, nil)

	p := mustAlloc(t, a, 100)
	rest := int(p) + 120

	assert.Equal(t, []int{rest}, listContents(a, format.SizeClass(3976, 10)))
	assert.Equal(t, 1, a.Stats().SplitCount)
	assertInvariants(t, a)
}

func TestPlace_SmallRemainderNotSplit(t *testing.T) {
	a := newTestAllocator(t, nil)

	// 144-byte hole between the prologue and a guard.
	hole := mustAlloc(t, a, 128)
	mustAlloc(t, a, 8)
	a.Free(hole)

	// need = 120 leaves 24 bytes, less than a minimum block.
	p := mustAlloc(t, a, 100)
	assert.Equal(t, hole, p)
	assert.Equal(t, 128, a.UsableSize(p), "whole hole is handed out")
	assertInvariants(t, a)
}

func TestPlace_ExactMinimumRemainderSplits(t *testing.T) {
	a := newTestAllocator(t, nil)

	// 152-byte hole: need 120 leaves exactly MinBlockSize.
	hole := mustAlloc(t, a, 136)
	mustAlloc(t, a, 8)
	a.Free(hole)

	p := mustAlloc(t, a, 100)
	assert.Equal(t, hole, p)
	assert.Equal(t, 104, a.UsableSize(p))
	assert.Contains(t, freeBlocks(a), int(p)+120)
	assert.Equal(t, format.MinBlockSize, a.sizeOf(int(p)+120))
	assertInvariants(t, a)
}

func TestPlace_ConfiguredSplitThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		usable    int
	}{
		{"default splits 56 byte remainder", 0, 104},
		{"threshold 64 keeps it", 64, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig
			cfg.SplitThreshold = tt.threshold
			a := newTestAllocator(t, &cfg)

			hole := mustAlloc(t, a, 160) // 176-byte block
			mustAlloc(t, a, 8)
			a.Free(hole)

			p := mustAlloc(t, a, 100)
			assert.Equal(t, hole, p)
			assert.Equal(t, tt.usable, a.UsableSize(p))
			assertInvariants(t, a)
		})
	}
}
