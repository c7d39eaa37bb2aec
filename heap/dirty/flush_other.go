//go:build !unix

package dirty

import "context"

// flushRanges is a no-op without mmap; memlib.File.Sync writes the region back.
func (t *Tracker) flushRanges(_ context.Context, _ []byte) error {
	return nil
}
