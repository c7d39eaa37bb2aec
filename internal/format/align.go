package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// AlignTo returns n aligned up to a multiple of boundary, which must be a
// power of two. Used to round heap extensions to whole chunks.
func AlignTo(n, boundary int) int {
	mask := boundary - 1
	return (n + mask) & ^mask
}

// IsAligned reports whether n is a multiple of Alignment.
func IsAligned(n int) bool {
	return n&AlignmentMask == 0
}

// BlockSizeFor returns the total block size needed to serve a request of n
// payload bytes: the aligned payload plus tag overhead, never less than
// MinBlockSize.
func BlockSizeFor(n int) int {
	size := Align8(n) + Overhead
	if size < MinBlockSize {
		return MinBlockSize
	}
	return size
}
