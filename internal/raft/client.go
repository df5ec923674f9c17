package raft

import (
	"context"
	"time"

	"canvasraft/internal/raftlog"
	"canvasraft/internal/transport"
)

// SubmitPixel is the client entry point described in §4.5. On the leader it
// appends a new LogEntry and blocks until it commits (or the submit
// deadline / caller context expires); on a follower it forwards to the
// known leader via PeerTransport and returns that peer's result, per the
// stronger forward-to-leader contract.
func (n *Node) SubmitPixel(ctx context.Context, x, y, color uint32) bool {
	n.mu.Lock()
	if !n.canvas.InBounds(x, y) {
		n.mu.Unlock()
		return false
	}

	if n.role != Leader {
		leaderID := n.leaderID
		n.mu.Unlock()
		if leaderID == "" {
			return false
		}
		cctx, cancel := context.WithTimeout(ctx, transport.SubmitPixelTimeout)
		defer cancel()
		reply, err := n.transport.SubmitPixel(cctx, leaderID, transport.SubmitPixelArgs{X: x, Y: y, Color: color})
		if err != nil || reply == nil {
			return false
		}
		return reply.Success
	}

	entry := raftlog.LogEntry{
		Term:  n.currentTerm,
		Index: n.log.LastIndex() + 1,
		Payload: raftlog.Pixel{
			X:     x,
			Y:     y,
			Color: color,
		},
	}
	n.log.Append(entry)
	done := make(chan bool, 1)
	n.pendingCommits[entry.Index] = done
	n.mu.Unlock()

	go n.replicateToAllPeers()

	timeout := n.cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	select {
	case ok := <-done:
		return ok
	case <-time.After(timeout):
		n.clearPendingCommit(entry.Index)
		return false
	case <-ctx.Done():
		n.clearPendingCommit(entry.Index)
		return false
	case <-n.doneCh:
		return false
	}
}

func (n *Node) clearPendingCommit(index uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pendingCommits, index)
}

// GetAllPixels reads directly from Canvas with no additional consistency
// guarantee beyond what Canvas.Snapshot already provides.
func (n *Node) GetAllPixels() []uint32 {
	return n.canvas.Snapshot()
}
