package core

import (
	"context"
	"log/slog"
	"sync"
)

// Config holds the collaborators of a Service.
type Config struct {
	Editor     Editor
	Memento    Memento
	Reporter   Reporter
	Logger     *slog.Logger
	StorageKey string // defaults to DefaultStorageKey
}

// Service composes the state store, snapshot cache, interceptor and toggle
// controller over one Session. It is the Listener a host registers.
type Service struct {
	mu          sync.RWMutex
	session     *Session
	state       *StateStore
	snapshots   *SnapshotCache
	interceptor *Interceptor
	controller  *Controller
	logger      *slog.Logger
	started     bool
}

// NewService creates a new Service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	session := NewSession()
	state := NewStateStore(session, cfg.Memento, cfg.StorageKey, logger)
	snapshots := NewSnapshotCache(session)

	return &Service{
		session:     session,
		state:       state,
		snapshots:   snapshots,
		interceptor: NewInterceptor(session, state, snapshots, cfg.Editor, cfg.Reporter, logger),
		controller:  NewController(state, snapshots, cfg.Editor, cfg.Reporter, logger),
		logger:      logger,
	}
}

// Start restores the persisted read-only set and snapshots the open documents in it.
// Calling Start again reloads from storage.
func (s *Service) Start(ctx context.Context) ReadOnlySet {
	set := s.controller.Restore(ctx)

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	return set
}

// Toggle flips the read-only flag of id.
func (s *Service) Toggle(ctx context.Context, id DocumentID) (bool, error) {
	return s.controller.Toggle(ctx, id)
}

// IsReadOnly reports whether id is read-only.
func (s *Service) IsReadOnly(id DocumentID) bool {
	return s.state.IsReadOnly(id)
}

// Status answers the status query for id.
func (s *Service) Status(id DocumentID) Status {
	return s.controller.Status(id)
}

// ReadOnlyIDs lists the read-only documents.
func (s *Service) ReadOnlyIDs() []DocumentID {
	return s.state.IDs()
}

// HasSnapshot reports whether a restore point exists for id.
func (s *Service) HasSnapshot(id DocumentID) bool {
	return s.snapshots.Has(id)
}

// DidOpen implements Listener.
func (s *Service) DidOpen(ctx context.Context, id DocumentID) {
	s.controller.Opened(id)
}

// DidChange implements Listener.
func (s *Service) DidChange(ctx context.Context, e ChangeEvent) {
	s.interceptor.HandleChange(ctx, e)
}

// WillSave implements Listener.
func (s *Service) WillSave(ctx context.Context, e SaveEvent) error {
	_, err := s.interceptor.HandleWillSave(ctx, e)
	return err
}

var _ Listener = (*Service)(nil)
