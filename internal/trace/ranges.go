package trace

import (
	"cmp"
	"slices"
)

// span is a live payload [lo, hi) owned by id.
type span struct {
	lo, hi int
	id     int
}

// spanSet keeps live payloads sorted by start offset.
type spanSet struct {
	spans []span
}

func (s *spanSet) search(lo int) (int, bool) {
	return slices.BinarySearchFunc(s.spans, lo, func(sp span, lo int) int {
		return cmp.Compare(sp.lo, lo)
	})
}

// add inserts sp and returns the id of a live span it overlaps, or -1.
func (s *spanSet) add(sp span) int {
	i, found := s.search(sp.lo)
	if found {
		return s.spans[i].id
	}
	if i > 0 && s.spans[i-1].hi > sp.lo {
		return s.spans[i-1].id
	}
	if i < len(s.spans) && s.spans[i].lo < sp.hi {
		return s.spans[i].id
	}
	s.spans = slices.Insert(s.spans, i, sp)
	return -1
}

func (s *spanSet) remove(lo int) {
	if i, found := s.search(lo); found {
		s.spans = slices.Delete(s.spans, i, i+1)
	}
}
