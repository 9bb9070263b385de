package core

// SnapshotCache keeps the full text of each read-only document as it was when
// the document was frozen. Full text is stored rather than diffs: few
// documents are frozen at once and restoring is a single replace.
type SnapshotCache struct {
	session *Session
}

// NewSnapshotCache creates a cache over the session's snapshot map.
func NewSnapshotCache(session *Session) *SnapshotCache {
	return &SnapshotCache{session: session}
}

// Capture stores text as the restore point for id, replacing any previous one.
func (c *SnapshotCache) Capture(id DocumentID, text string) {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	c.session.snapshots[id] = text
}

// Get returns the restore point for id. false means there is nothing to restore.
func (c *SnapshotCache) Get(id DocumentID) (string, bool) {
	c.session.mu.RLock()
	defer c.session.mu.RUnlock()
	text, ok := c.session.snapshots[id]
	return text, ok
}

// Has reports whether a restore point exists for id.
func (c *SnapshotCache) Has(id DocumentID) bool {
	_, ok := c.Get(id)
	return ok
}

// Release drops the restore point for id.
func (c *SnapshotCache) Release(id DocumentID) {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	delete(c.session.snapshots, id)
}

// Len returns the number of stored snapshots.
func (c *SnapshotCache) Len() int {
	c.session.mu.RLock()
	defer c.session.mu.RUnlock()
	return len(c.session.snapshots)
}
