package format

import "math/bits"

// SizeClass maps a block size to its segregated-list index. Bucket i holds
// sizes in [2^(i+4), 2^(i+5)); the last bucket is open-ended.
//
//	Class 0:  16 -   31
//	Class 1:  32 -   63
//	Class 2:  64 -  127
//	...
//	Class 9: 8192+       (with the default 10 classes)
//
// Allocation search and free-list insertion must both go through this
// function or a block can end up resident in the wrong list.
func SizeClass(size, numClasses int) int {
	if size <= 0 {
		return 0
	}
	idx := bits.Len(uint(size)) - 1 - MinClassShift
	if idx < 0 {
		return 0
	}
	if idx >= numClasses {
		return numClasses - 1
	}
	return idx
}

// ClassLowerBound returns the smallest block size routed to class i.
func ClassLowerBound(i int) int {
	if i <= 0 {
		return 0
	}
	return 1 << (i + MinClassShift)
}
