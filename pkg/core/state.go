package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DefaultStorageKey is the memento key holding the serialized read-only list.
const DefaultStorageKey = "readOnlyDocuments"

// StateStore tracks which documents are read-only and persists the list.
type StateStore struct {
	session *Session
	memento Memento
	key     string
	logger  *slog.Logger
}

// NewStateStore creates a store over the session's read-only set.
// An empty key selects DefaultStorageKey.
func NewStateStore(session *Session, memento Memento, key string, logger *slog.Logger) *StateStore {
	if key == "" {
		key = DefaultStorageKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StateStore{
		session: session,
		memento: memento,
		key:     key,
		logger:  logger,
	}
}

// IsReadOnly reports whether id is flagged read-only.
func (s *StateStore) IsReadOnly(id DocumentID) bool {
	s.session.mu.RLock()
	defer s.session.mu.RUnlock()
	return s.session.readOnly.Has(id)
}

// SetReadOnly inserts or removes id. Setting the current value again is a no-op.
func (s *StateStore) SetReadOnly(id DocumentID, readOnly bool) {
	s.session.mu.Lock()
	defer s.session.mu.Unlock()
	if readOnly {
		s.session.readOnly[id] = struct{}{}
		return
	}
	delete(s.session.readOnly, id)
}

// IDs returns the read-only documents in lexical order.
func (s *StateStore) IDs() []DocumentID {
	s.session.mu.RLock()
	defer s.session.mu.RUnlock()
	return s.session.readOnly.Sorted()
}

// Load replaces the in-memory set with the persisted one and returns a copy.
// Missing, unreadable or corrupt storage yields an empty set (no error).
func (s *StateStore) Load(ctx context.Context) ReadOnlySet {
	set := s.read(ctx)

	s.session.mu.Lock()
	s.session.readOnly = set
	s.session.mu.Unlock()

	return NewReadOnlySet(set.Sorted()...)
}

func (s *StateStore) read(ctx context.Context) ReadOnlySet {
	if s.memento == nil {
		return make(ReadOnlySet)
	}

	data, ok, err := s.memento.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read read-only state, starting empty", "key", s.key, "error", err)
		return make(ReadOnlySet)
	}
	if !ok || len(data) == 0 {
		return make(ReadOnlySet)
	}

	var ids []DocumentID
	if err := json.Unmarshal(data, &ids); err != nil {
		// Self-heal: a corrupt list is treated as no list.
		s.logger.Warn("corrupt read-only state, starting empty", "key", s.key, "error", err)
		return make(ReadOnlySet)
	}
	return NewReadOnlySet(ids...)
}

// Persist writes the current set synchronously.
func (s *StateStore) Persist(ctx context.Context) error {
	if s.memento == nil {
		return nil
	}

	ids := s.IDs()
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode read-only state: %w", err)
	}
	if err := s.memento.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist read-only state: %w", err)
	}
	s.logger.Debug("read-only state persisted", "count", len(ids))
	return nil
}
