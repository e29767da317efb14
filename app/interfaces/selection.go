package interfaces

import "sync"

// Selection is a shared reactive predicate handle. Clients subscribed to
// a selection are re-executed by the coordinator whenever the predicate
// changes. The predicate is an opaque SQL boolean expression; "" means
// no filtering.
type Selection struct {
	mu    sync.Mutex
	value string
	subs  map[int]func(string)
	next  int
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{subs: make(map[int]func(string))}
}

// Value returns the current predicate.
func (s *Selection) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Update replaces the predicate and notifies subscribers. Setting the
// same value again still notifies; the caller decides idempotence.
func (s *Selection) Update(predicate string) {
	s.mu.Lock()
	s.value = predicate
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(predicate)
	}
}

// Subscribe registers a change callback and returns an unsubscribe
// function.
func (s *Selection) Subscribe(fn func(predicate string)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
