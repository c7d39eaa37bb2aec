package format

import (
	"errors"
	"testing"
)

func TestNextBlockAllocated(t *testing.T) {
	buf := make([]byte, 128)
	bp := 16
	PutTags(buf, bp, 48, true)

	blk, next, err := NextBlock(buf, bp)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if !blk.Allocated {
		t.Fatalf("expected allocated block")
	}
	if blk.Size != 48 || blk.Header != blk.Footer {
		t.Fatalf("unexpected block: %+v", blk)
	}
	if next != bp+48 {
		t.Fatalf("next offset mismatch: %d", next)
	}
}

func TestNextBlockFree(t *testing.T) {
	buf := make([]byte, 128)
	PutTags(buf, 8, MinBlockSize, false)

	blk, _, err := NextBlock(buf, 8)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if blk.Allocated {
		t.Fatalf("expected free block")
	}
}

func TestNextBlockEpilogue(t *testing.T) {
	buf := make([]byte, 32)
	PutTag(buf, 16, 0, true)

	blk, next, err := NextBlock(buf, 24)
	if err != nil {
		t.Fatalf("NextBlock: %v", err)
	}
	if blk.Size != 0 || !blk.Allocated || next != 24 {
		t.Fatalf("unexpected epilogue decode: %+v next=%d", blk, next)
	}
}

func TestNextBlockTruncated(t *testing.T) {
	buf := make([]byte, 32)
	PutTag(buf, 0, 64, false)

	if _, _, err := NextBlock(buf, 8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if _, _, err := NextBlock(buf, 64); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for header past end, got %v", err)
	}
}

func TestNextBlockBadTag(t *testing.T) {
	buf := make([]byte, 32)
	PutTag(buf, 0, 8, true)

	if _, _, err := NextBlock(buf, 8); !errors.Is(err, ErrBadTag) {
		t.Fatalf("expected ErrBadTag, got %v", err)
	}
}
