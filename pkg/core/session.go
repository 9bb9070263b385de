package core

import "sync"

// Session owns the in-memory containers shared by the core components for the
// lifetime of the process: the read-only set, the snapshots, and the
// per-document suppression flags used while a corrective edit is in flight.
//
// Components receive the session at construction; nothing in this package
// keeps package-level state.
type Session struct {
	mu         sync.RWMutex
	readOnly   ReadOnlySet
	snapshots  map[DocumentID]string
	suppressed map[DocumentID]bool
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		readOnly:   make(ReadOnlySet),
		snapshots:  make(map[DocumentID]string),
		suppressed: make(map[DocumentID]bool),
	}
}

// suppress raises the re-entrancy flag for id. It returns false if the flag
// was already raised.
func (s *Session) suppress(id DocumentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suppressed[id] {
		return false
	}
	s.suppressed[id] = true
	return true
}

func (s *Session) release(id DocumentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.suppressed, id)
}

func (s *Session) isSuppressed(id DocumentID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suppressed[id]
}
