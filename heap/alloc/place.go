package alloc

// place marks the unlisted block bp allocated with room for need bytes.
// When the leftover is at least SplitThreshold it becomes a separate free
// block, merged with a free right neighbour if there is one. Otherwise the
// whole block is handed out.
func (a *Allocator) place(bp, need int) Ptr {
	size := a.sizeOf(bp)

	if size-need >= a.cfg.SplitThreshold {
		a.putTags(bp, need, true)
		rest := bp + need
		a.putTags(rest, size-need, false)
		a.coalesce(rest)
		a.stats.SplitCount++
		return Ptr(bp)
	}

	a.putTags(bp, size, true)
	return Ptr(bp)
}
