package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Started    bool     `json:"started"`
	ReadOnly   []string `json:"read_only"`
	Snapshots  int      `json:"snapshots"`
	Suppressed int      `json:"suppressed"`
	EditorType string   `json:"editor_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	editorType := "none"
	if s.controller.editor != nil {
		editorType = "editor"
		// Try to get component type if the editor implements introspection.Component
		if comp, ok := s.controller.editor.(introspection.Component); ok {
			editorType = comp.ComponentType()
		}
	}

	ids := s.state.IDs()
	readOnly := make([]string, 0, len(ids))
	for _, id := range ids {
		readOnly = append(readOnly, id.String())
	}

	s.session.mu.RLock()
	suppressed := len(s.session.suppressed)
	s.session.mu.RUnlock()

	return ServiceState{
		Started:    started,
		ReadOnly:   readOnly,
		Snapshots:  s.snapshots.Len(),
		Suppressed: suppressed,
		EditorType: editorType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
