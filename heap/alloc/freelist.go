package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Free lists are doubly linked through the payloads of their members. Every
// list starts at its own head sentinel and ends at the shared tail sentinel,
// so insertion and removal never branch on list ends.

// classOf returns the list index for a block of the given size.
func (a *Allocator) classOf(size int) int {
	return format.SizeClass(size, a.cfg.NumClasses)
}

// insert pushes the free block bp onto the front of its class list.
func (a *Allocator) insert(bp int) {
	head := a.heads[a.classOf(a.sizeOf(bp))]
	first := a.nextLink(head)

	a.setPrevLink(bp, head)
	a.setNextLink(bp, first)
	a.setPrevLink(first, bp)
	a.setNextLink(head, bp)
}

// remove unlinks the free block bp from whatever list holds it. Nil and
// allocated blocks are left alone.
func (a *Allocator) remove(bp int) {
	if bp == int(Nil) {
		return
	}
	prev, next, ok := a.view(bp).links(a)
	if !ok {
		return
	}
	a.setNextLink(prev, next)
	a.setPrevLink(next, prev)
}

// find returns the first listed block of at least need bytes, starting at
// need's class and escalating to larger ones. It returns 0 when no list
// holds a fit.
func (a *Allocator) find(need int) int {
	for c := a.classOf(need); c < a.cfg.NumClasses; c++ {
		for bp := a.nextLink(a.heads[c]); bp != a.tail; bp = a.nextLink(bp) {
			if a.sizeOf(bp) >= need {
				return bp
			}
		}
	}
	return 0
}
