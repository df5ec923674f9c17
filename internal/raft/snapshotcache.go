package raft

import (
	"sync"

	"go.uber.org/zap"

	"canvasraft/internal/codec"
)

// SnapshotCache holds the most recently encoded debug snapshot in memory.
// It exists so repeated /debug/snapshot polls don't re-walk the canvas grid
// and re-run gob encoding on every request; the cache is refreshed once per
// apply batch instead. Nothing here ever touches disk — this is the same
// in-memory-only seam the node's log and canvas already live behind, kept
// as its own small type so a future WAL-backed persister could slot in
// without the apply path changing shape.
type SnapshotCache struct {
	mu   sync.Mutex
	data []byte
}

// NewSnapshotCache returns an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{}
}

// Save replaces the cached snapshot bytes.
func (c *SnapshotCache) Save(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
}

// Read returns the most recently saved snapshot bytes, or nil if none has
// been saved yet.
func (c *SnapshotCache) Read() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Size returns the length of the cached snapshot in bytes.
func (c *SnapshotCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// refreshSnapshotCacheLocked re-encodes the node's current state into the
// cache. Called from applyCommittedLocked, which already holds n.mu.
func (n *Node) refreshSnapshotCacheLocked() {
	if n.snapshotCache == nil {
		return
	}
	snap := codec.Snapshot{
		NodeID:      n.id,
		Term:        n.currentTerm,
		Role:        n.role.String(),
		LogLength:   n.log.LastIndex(),
		CommitIndex: n.commitIndex,
		LastApplied: n.lastApplied,
		CanvasSize:  n.canvas.Size(),
		Pixels:      n.canvas.Snapshot(),
	}
	data, err := codec.EncodeSnapshot(snap)
	if err != nil {
		n.logger.Warn("failed to refresh snapshot cache", zap.Error(err))
		return
	}
	n.snapshotCache.Save(data)
}

// LatestSnapshot returns the most recently cached debug snapshot, encoding
// one on the spot if nothing has been applied yet.
func (n *Node) LatestSnapshot() []byte {
	if cached := n.snapshotCache.Read(); cached != nil {
		return cached
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refreshSnapshotCacheLocked()
	return n.snapshotCache.Read()
}
