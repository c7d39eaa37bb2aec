//go:build unix

package memlib

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/internal/format"
)

// File is a Provider backed by a memory-mapped file. Growth extends the file
// with ftruncate and remaps it, so slices returned by Bytes are invalidated
// by every Sbrk that crosses the current mapping.
type File struct {
	f        *os.File
	data     []byte // current mapping, page-rounded
	brk      int
	max      int
	pageSize int
}

// OpenFile opens (creating if needed) a file-backed region at path that can
// grow to max bytes. An existing file's size becomes the initial break so a
// previously formatted heap can be reattached.
func OpenFile(path string, max int) (*File, error) {
	if max <= 0 {
		max = DefaultMaxHeap
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	size := st.Size()
	if size > int64(max) {
		_ = f.Close()
		return nil, fmt.Errorf("memlib: %s is %d bytes, larger than limit %d", path, size, max)
	}

	fp := &File{
		f:        f,
		brk:      int(size),
		max:      max,
		pageSize: systemPageSize(),
	}
	if size > 0 {
		if err := fp.remap(int(size)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return fp, nil
}

func (fp *File) Lo() int { return 0 }

func (fp *File) Hi() int { return fp.brk - 1 }

func (fp *File) PageSize() int { return fp.pageSize }

// Sbrk extends the file by incr bytes and returns the old break.
func (fp *File) Sbrk(incr int) (int, error) {
	if fp.f == nil {
		return 0, ErrClosed
	}
	if incr < 0 {
		return 0, ErrBadIncrement
	}
	old := fp.brk
	if incr > fp.max-old {
		return 0, fmt.Errorf("sbrk %d at break %d (max %d): %w", incr, old, fp.max, ErrNoMemory)
	}
	newBrk := old + incr
	if newBrk > len(fp.data) {
		if err := fp.grow(newBrk); err != nil {
			return 0, fmt.Errorf("sbrk %d: %w: %w", incr, ErrNoMemory, err)
		}
	}
	fp.brk = newBrk
	return old, nil
}

func (fp *File) Bytes() []byte {
	if fp.data == nil {
		return nil
	}
	return fp.data[:fp.brk]
}

// grow extends the file to cover at least size bytes and remaps it. On
// failure the previous mapping is restored.
func (fp *File) grow(size int) error {
	mapped := format.AlignTo(size, fp.pageSize)
	if mapped > fp.max {
		mapped = size
	}
	oldLen := len(fp.data)

	if err := fp.f.Truncate(int64(mapped)); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if err := fp.remap(mapped); err != nil {
		// Try to restore the old size and mapping
		_ = fp.f.Truncate(int64(oldLen))
		if oldLen > 0 {
			_ = fp.remap(oldLen)
		}
		return err
	}
	return nil
}

func (fp *File) remap(size int) error {
	if fp.data != nil {
		if err := unix.Munmap(fp.data); err != nil {
			return fmt.Errorf("munmap: %w", err)
		}
		fp.data = nil
	}
	data, err := unix.Mmap(int(fp.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}
	fp.data = data
	return nil
}

// Sync flushes the whole mapping to disk.
func (fp *File) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fp.data == nil {
		return nil
	}
	return unix.Msync(fp.data, unix.MS_SYNC)
}

// Close unmaps the region, trims the file to the break, and closes it.
func (fp *File) Close() error {
	if fp.f == nil {
		return nil
	}
	var errs []error
	if fp.data != nil {
		if err := unix.Munmap(fp.data); err != nil && !errors.Is(err, unix.EINVAL) {
			errs = append(errs, err)
		}
		fp.data = nil
	}
	if err := fp.f.Truncate(int64(fp.brk)); err != nil {
		errs = append(errs, err)
	}
	if err := fp.f.Close(); err != nil {
		errs = append(errs, err)
	}
	fp.f = nil
	return errors.Join(errs...)
}
