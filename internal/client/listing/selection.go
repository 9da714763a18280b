package listing

// Selection is an insertion-ordered set of ids used for multi-select.
type Selection struct {
	ids []string
	idx map[string]int
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Selection) add(id string) {
	if s.idx == nil {
		s.idx = map[string]int{}
	}
	if _, ok := s.idx[id]; ok {
		return
	}
	s.idx[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

func (s *Selection) Has(id string) bool {
	_, ok := s.idx[id]
	return ok
}

// Toggle adds id when absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.add(id)
}

// AllSelected reports whether every visible id is selected. It is false for
// an empty visible list.
func (s *Selection) AllSelected(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, id := range visible {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// ToggleAll clears the selection when every visible id is selected and
// otherwise selects exactly the visible ids.
func (s *Selection) ToggleAll(visible []string) {
	if s.AllSelected(visible) {
		s.Clear()
		return
	}
	s.Clear()
	for _, id := range visible {
		s.add(id)
	}
}

func (s *Selection) Remove(ids ...string) {
	if len(ids) == 0 || len(s.ids) == 0 {
		return
	}
	drop := set(ids)
	kept := s.ids[:0]
	s.idx = make(map[string]int, len(s.ids))
	for _, id := range s.ids {
		if _, ok := drop[id]; ok {
			continue
		}
		s.idx[id] = len(kept)
		kept = append(kept, id)
	}
	s.ids = kept
}

func (s *Selection) Clear() {
	s.ids = nil
	s.idx = nil
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s *Selection) Len() int {
	return len(s.ids)
}
