package format

import "testing"

func TestPackRoundTrip(t *testing.T) {
	cases := []struct {
		size      int
		allocated bool
	}{
		{16, true},
		{32, false},
		{4096, true},
		{1 << 40, false},
	}
	for _, c := range cases {
		tag := Pack(c.size, c.allocated)
		if TagSize(tag) != c.size || TagAllocated(tag) != c.allocated {
			t.Fatalf("Pack(%d,%v) decoded as (%d,%v)", c.size, c.allocated, TagSize(tag), TagAllocated(tag))
		}
	}
}

func TestTagOffsets(t *testing.T) {
	if HeaderOffset(40) != 32 {
		t.Fatalf("HeaderOffset(40) = %d", HeaderOffset(40))
	}
	if FooterOffset(40, 48) != 72 {
		t.Fatalf("FooterOffset(40,48) = %d", FooterOffset(40, 48))
	}
	if PrevFooterOffset(40) != 24 {
		t.Fatalf("PrevFooterOffset(40) = %d", PrevFooterOffset(40))
	}
}

func TestLayout(t *testing.T) {
	n := DefaultNumClasses
	if HeadSentinel(0) != HeaderSize {
		t.Fatalf("HeadSentinel(0) = %d", HeadSentinel(0))
	}
	if TailSentinel(n) != HeadSentinel(n) {
		t.Fatalf("tail sentinel must follow the last head sentinel")
	}
	if FirstBlock(n) != InitialHeapSize(n) {
		t.Fatalf("first block payload %d should equal initial break %d", FirstBlock(n), InitialHeapSize(n))
	}
	if !IsAligned(FirstBlock(n)) {
		t.Fatalf("first payload not aligned")
	}
}

func TestAlign(t *testing.T) {
	if Align8(1) != 8 || Align8(8) != 8 || Align8(9) != 16 {
		t.Fatalf("Align8 mismatch")
	}
	if AlignTo(1, 4096) != 4096 || AlignTo(4097, 4096) != 8192 {
		t.Fatalf("AlignTo mismatch")
	}
	if BlockSizeFor(1) != MinBlockSize {
		t.Fatalf("BlockSizeFor(1) = %d", BlockSizeFor(1))
	}
	if BlockSizeFor(100) != 104+Overhead {
		t.Fatalf("BlockSizeFor(100) = %d", BlockSizeFor(100))
	}
}
