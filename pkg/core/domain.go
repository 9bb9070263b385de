// Package core holds the read-only tracking logic: which documents are frozen,
// what they looked like when frozen, and how edit and save attempts against
// them are turned back.
package core

import (
	"net/url"
	"path"
	"sort"
	"strings"
	"time"
)

// DocumentID is the canonical identifier of an open document (usually a URI).
// Two documents are the same document iff their IDs are equal strings.
type DocumentID string

func (id DocumentID) String() string {
	return string(id)
}

// Base returns the last path element of the identifier, suitable for messages.
func (id DocumentID) Base() string {
	s := string(id)
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Path != "" {
		s = u.Path
	}
	s = strings.TrimRight(s, "/")
	if s == "" {
		return string(id)
	}
	return path.Base(s)
}

// ReadOnlySet is the set of documents currently flagged read-only.
type ReadOnlySet map[DocumentID]struct{}

// NewReadOnlySet builds a set from a list of identifiers. Empty IDs are skipped.
func NewReadOnlySet(ids ...DocumentID) ReadOnlySet {
	s := make(ReadOnlySet, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s ReadOnlySet) Has(id DocumentID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in lexical order.
func (s ReadOnlySet) Sorted() []DocumentID {
	ids := make([]DocumentID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Equal reports whether both sets hold the same identifiers.
func (s ReadOnlySet) Equal(other ReadOnlySet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// ViolationKind tells which operation was attempted on a read-only document.
type ViolationKind string

const (
	ViolationEdit ViolationKind = "EDIT"
	ViolationSave ViolationKind = "SAVE"
)

// Recovery describes how a violation was handled.
type Recovery string

const (
	RecoveryRestored Recovery = "restored" // content replaced with the snapshot
	RecoveryUndo     Recovery = "undo"     // no snapshot, last action undone
	RecoveryReloaded Recovery = "reloaded" // replace failed, reloaded from backing storage
	RecoveryVetoed   Recovery = "vetoed"   // save refused
	RecoveryFailed   Recovery = "failed"   // every fallback failed, see Err
)

// Violation is an attempted edit or save against a read-only document.
// It only lives for the duration of one interception.
type Violation struct {
	ID         string
	DocumentID DocumentID
	Kind       ViolationKind
	Timestamp  time.Time
	Recovery   Recovery
	Err        error
}

// Message renders the user-facing warning for the violation.
func (v Violation) Message() string {
	verb := "edit"
	if v.Kind == ViolationSave {
		verb = "save"
	}
	msg := "Cannot " + verb + " " + v.DocumentID.Base() + " - file is in Read-Only mode"
	if v.Recovery == RecoveryFailed {
		msg += " (changes could not be reverted)"
	}
	return msg
}

// ChangeEvent notifies that the content of an open document changed.
// Changed is false for notifications that carry no content change
// (e.g. dirty-state or metadata updates).
type ChangeEvent struct {
	DocumentID DocumentID
	Changed    bool
	Timestamp  time.Time
}

// SaveEvent notifies that a document is about to be written to its backing storage.
type SaveEvent struct {
	DocumentID DocumentID
	Timestamp  time.Time
}

// Status is the answer to the status query for a single document.
type Status struct {
	DocumentID DocumentID `json:"id"`
	ReadOnly   bool       `json:"read_only"`
	Snapshot   bool       `json:"snapshot"`
}

// Message renders the status query answer.
func (s Status) Message(shortcut string) string {
	if s.ReadOnly {
		return s.DocumentID.Base() + " is currently in READ-ONLY mode. Use " + shortcut + " to toggle."
	}
	return s.DocumentID.Base() + " is currently EDITABLE. Use " + shortcut + " to toggle read-only mode."
}
