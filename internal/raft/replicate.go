package raft

import (
	"context"
	"sync"
	"time"

	"canvasraft/internal/transport"
)

// heartbeatLoop runs for as long as the node remains leader of term. It
// sends an immediate round on entry (so a freshly elected leader asserts
// itself right away) and then one round per heartbeat interval.
func (n *Node) heartbeatLoop(term uint64, stopCh chan struct{}) {
	n.replicateToAllPeers()

	ticker := time.NewTicker(n.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-n.doneCh:
			return
		case <-ticker.C:
			n.replicateToAllPeers()
		}
	}
}

// replicationSnapshot pins the next_index value (and the match_index a
// success would establish) that an AppendEntries round was built against,
// so the reply can be applied against the same state it was requested
// under even though BroadcastAppendEntries builds every peer's args
// concurrently with the node's own goroutine reading replies later.
type replicationSnapshot struct {
	ni       uint64
	newMatch uint64
}

// replicateToAllPeers sends one AppendEntries round to every peer via the
// shared ordered broadcast helper, each carrying whatever slice of the log
// that peer's next_index calls for, then applies the replies in peer order.
func (n *Node) replicateToAllPeers() {
	n.mu.Lock()
	if n.role != Leader {
		n.mu.Unlock()
		return
	}
	term := n.currentTerm
	peers := append([]string(nil), n.peers...)
	n.mu.Unlock()

	var snapMu sync.Mutex
	snapshots := make(map[string]replicationSnapshot, len(peers))

	argsFor := func(peerID string) transport.AppendEntriesArgs {
		n.mu.Lock()
		ni := n.nextIndex[peerID]
		prevIndex := ni - 1
		prevTerm := n.log.TermAt(prevIndex)
		entries := n.log.SliceFrom(ni)
		args := transport.AppendEntriesArgs{
			Term:         term,
			LeaderID:     n.id,
			PrevLogIndex: prevIndex,
			PrevLogTerm:  prevTerm,
			Entries:      entries,
			LeaderCommit: n.commitIndex,
		}
		n.mu.Unlock()

		snapMu.Lock()
		snapshots[peerID] = replicationSnapshot{ni: ni, newMatch: prevIndex + uint64(len(entries))}
		snapMu.Unlock()
		return args
	}

	ctx, cancel := context.WithTimeout(context.Background(), transport.AppendEntriesTimeout)
	defer cancel()
	start := time.Now()
	replies := transport.BroadcastAppendEntries(ctx, n.transport, peers, argsFor)
	elapsed := time.Since(start)
	for _, reply := range replies {
		n.observeRPCLatency("AppendEntries", elapsed, reply != nil)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.role != Leader || n.currentTerm != term {
		return
	}

	for i, peerID := range peers {
		reply := replies[i]
		if reply == nil {
			continue // transport error: leave next_index unchanged, retry next tick
		}
		snap := snapshots[peerID]
		n.applyAppendEntriesReplyLocked(peerID, term, snap, reply)
		if n.role != Leader || n.currentTerm != term {
			return
		}
	}
}

// applyAppendEntriesReplyLocked applies one peer's AppendEntries reply
// against the next_index/match_index snapshot that round's args were built
// from, implementing the per-peer leg of §4.4's replication loop. Caller
// holds n.mu.
func (n *Node) applyAppendEntriesReplyLocked(peerID string, term uint64, snap replicationSnapshot, reply *transport.AppendEntriesReply) {
	if reply.Term > n.currentTerm {
		n.bumpTermLocked(reply.Term)
		return
	}
	if n.role != Leader || n.currentTerm != term {
		return
	}

	if reply.Success {
		if snap.newMatch > n.matchIndex[peerID] {
			n.matchIndex[peerID] = snap.newMatch
		}
		if snap.newMatch+1 > n.nextIndex[peerID] {
			n.nextIndex[peerID] = snap.newMatch + 1
		}
		n.advanceCommitIndexLocked()
		return
	}

	// Guard against a stale reply regressing next_index past what a more
	// recent round already established.
	if n.nextIndex[peerID] == snap.ni {
		if snap.ni > 1 {
			n.nextIndex[peerID] = snap.ni - 1
		} else {
			n.nextIndex[peerID] = 1
		}
	}
}

// handleAppendEntriesLocked implements §4.4's AppendEntries handler.
// Caller holds n.mu.
func (n *Node) handleAppendEntriesLocked(req transport.AppendEntriesArgs) transport.AppendEntriesReply {
	if req.Term < n.currentTerm {
		return transport.AppendEntriesReply{Term: n.currentTerm, Success: false, MatchIndex: 0}
	}
	if req.Term > n.currentTerm {
		n.bumpTermLocked(req.Term)
	}

	n.leaderID = req.LeaderID
	if n.role == Candidate {
		n.role = Follower
	}
	n.resetElectionTimerLocked()

	if req.PrevLogIndex > 0 {
		if req.PrevLogIndex > n.log.LastIndex() {
			return transport.AppendEntriesReply{Term: n.currentTerm, Success: false, MatchIndex: n.log.LastIndex()}
		}
		if n.log.TermAt(req.PrevLogIndex) != req.PrevLogTerm {
			return transport.AppendEntriesReply{Term: n.currentTerm, Success: false, MatchIndex: n.log.LastIndex()}
		}
	}

	for _, e := range req.Entries {
		if e.Index <= n.log.LastIndex() {
			if n.log.TermAt(e.Index) != e.Term {
				n.log.TruncateFrom(e.Index)
				n.log.Append(e)
			}
			// else: already present, skip.
		} else {
			n.log.Append(e)
		}
	}

	if req.LeaderCommit > n.commitIndex {
		newCommit := req.LeaderCommit
		if last := n.log.LastIndex(); last < newCommit {
			newCommit = last
		}
		n.commitIndex = newCommit
		n.applyCommittedLocked()
	}

	return transport.AppendEntriesReply{Term: n.currentTerm, Success: true, MatchIndex: n.log.LastIndex()}
}

// advanceCommitIndexLocked implements the leader's commit-advancement rule,
// including the Figure-8 safety check: a leader only commits index N by
// counting peer acks when log.term_at(N) == current_term. Caller holds n.mu.
func (n *Node) advanceCommitIndexLocked() {
	for N := n.log.LastIndex(); N > n.commitIndex; N-- {
		if n.log.TermAt(N) != n.currentTerm {
			// Term is non-increasing as N decreases (log invariant), so no
			// lower N can satisfy the current-term check either.
			break
		}
		count := 1 // self
		for _, p := range n.peers {
			if n.matchIndex[p] >= N {
				count++
			}
		}
		if count >= n.majority() {
			n.commitIndex = N
			break
		}
	}
	n.applyCommittedLocked()
}

// applyCommittedLocked delivers every entry in (last_applied, commit_index]
// to Canvas in index order and completes any pending client submission for
// that index. Caller holds n.mu.
func (n *Node) applyCommittedLocked() {
	for n.lastApplied < n.commitIndex {
		idx := n.lastApplied + 1
		entry := n.log.Get(idx)
		n.canvas.Update(entry.Payload.X, entry.Payload.Y, entry.Payload.Color)
		n.lastApplied = idx

		if ch, ok := n.pendingCommits[idx]; ok {
			delete(n.pendingCommits, idx)
			select {
			case ch <- true:
			default:
			}
		}
	}
	n.reportLocked()
	n.refreshSnapshotCacheLocked()
}
