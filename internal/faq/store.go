package faq

import "sync/atomic"

// Store holds the current Index. Each Index it hands out stays immutable;
// a reload swaps in a freshly built one.
type Store struct {
	current atomic.Pointer[Index]
}

// NewStore returns a Store serving ix.
func NewStore(ix *Index) *Store {
	s := &Store{}
	s.Swap(ix)
	return s
}

// Index returns the current snapshot, never nil.
func (s *Store) Index() *Index {
	if ix := s.current.Load(); ix != nil {
		return ix
	}
	return newIndex()
}

// Swap installs ix and returns the previous snapshot.
func (s *Store) Swap(ix *Index) *Index {
	if ix == nil {
		ix = newIndex()
	}
	return s.current.Swap(ix)
}
