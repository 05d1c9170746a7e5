package service

import "sync"

// sequencer orders the responses of one render region. Every request takes a
// ticket; a response is rendered only if no later ticket was rendered first.
type sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

func (s *sequencer) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// apply runs render under the lock when seq is newer than the last rendered
// ticket and reports whether it did.
func (s *sequencer) apply(seq uint64, render func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	render()
	return true
}
