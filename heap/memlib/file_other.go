//go:build !unix

package memlib

import (
	"context"
	"fmt"
	"os"
)

// File is a Provider backed by a file. Without mmap the region lives in a
// byte slice and Sync writes it back.
type File struct {
	f        *os.File
	data     []byte
	max      int
	pageSize int
}

// OpenFile opens (creating if needed) a file-backed region at path that can
// grow to max bytes.
func OpenFile(path string, max int) (*File, error) {
	if max <= 0 {
		max = DefaultMaxHeap
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		f.Close()
		return nil, err
	}
	if len(data) > max {
		f.Close()
		return nil, fmt.Errorf("memlib: %s is %d bytes, larger than limit %d", path, len(data), max)
	}
	buf := make([]byte, len(data), max)
	copy(buf, data)
	return &File{f: f, data: buf, max: max, pageSize: systemPageSize()}, nil
}

func (fp *File) Lo() int { return 0 }

func (fp *File) Hi() int { return len(fp.data) - 1 }

func (fp *File) PageSize() int { return fp.pageSize }

func (fp *File) Sbrk(incr int) (int, error) {
	if fp.f == nil {
		return 0, ErrClosed
	}
	if incr < 0 {
		return 0, ErrBadIncrement
	}
	old := len(fp.data)
	if incr > fp.max-old {
		return 0, fmt.Errorf("sbrk %d at break %d (max %d): %w", incr, old, fp.max, ErrNoMemory)
	}
	fp.data = fp.data[:old+incr]
	return old, nil
}

func (fp *File) Bytes() []byte { return fp.data }

// Sync writes the region back to the file.
func (fp *File) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fp.f.WriteAt(fp.data, 0); err != nil {
		return err
	}
	return fp.f.Sync()
}

// Close syncs, trims, and closes the file.
func (fp *File) Close() error {
	if fp.f == nil {
		return nil
	}
	if err := fp.Sync(context.Background()); err != nil {
		fp.f.Close()
		fp.f = nil
		return err
	}
	if err := fp.f.Truncate(int64(len(fp.data))); err != nil {
		fp.f.Close()
		fp.f = nil
		return err
	}
	err := fp.f.Close()
	fp.f = nil
	return err
}
