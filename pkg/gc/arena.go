package gc

// store holds one generation's objects in a slot arena: a resizable slice
// of object references plus a free-list of vacated indices. Linking and
// unlinking are O(1); a sweep walks the slots directly. Every live object
// belongs to exactly one store, identified by its header slot index.
type store struct {
	slots     []Object
	free      []int
	live      int
	threshold int
}

// add links o into the store and records its slot in the object header.
func (s *store) add(o Object) {
	h := o.hdr()
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[idx] = o
		h.slot = idx
	} else {
		h.slot = len(s.slots)
		s.slots = append(s.slots, o)
	}
	s.live++
}

// remove unlinks o from the store, returning its slot to the free-list.
func (s *store) remove(o Object) {
	h := o.hdr()
	s.slots[h.slot] = nil
	s.free = append(s.free, h.slot)
	s.live--
}

// adjustThreshold recomputes the collection threshold from the survivor
// count, never dropping below the configured floor.
func (s *store) adjustThreshold(floor int) {
	t := s.live * 2
	if t < floor {
		t = floor
	}
	s.threshold = t
}
