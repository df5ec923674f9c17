package raft

import (
	"context"
	"time"

	"go.uber.org/zap"

	"canvasraft/internal/transport"
)

// startElectionLocked transitions to Candidate, bumps the term, votes for
// self, and fans RequestVote out to every peer. Caller holds n.mu.
func (n *Node) startElectionLocked() {
	n.role = Candidate
	n.currentTerm++
	n.votedFor = n.id
	n.leaderID = ""
	n.resetElectionTimerLocked()
	if n.metrics != nil {
		n.metrics.ElectionsTotal.Inc()
	}
	n.reportLocked()

	term := n.currentTerm
	lastIndex := n.log.LastIndex()
	lastTerm := n.log.LastTerm()
	peers := append([]string(nil), n.peers...)

	n.logger.Info("starting election", zap.Uint64("term", term))

	go n.runElection(term, lastIndex, lastTerm, peers)
}

// runElection fans RequestVote out to every peer via the shared ordered
// broadcast helper, then tallies the replies in peer order. A nil reply
// (timeout, dial failure, stale send) counts as neither a grant nor a
// refusal.
func (n *Node) runElection(term, lastIndex, lastTerm uint64, peers []string) {
	req := transport.RequestVoteArgs{
		Term:         term,
		CandidateID:  n.id,
		LastLogIndex: lastIndex,
		LastLogTerm:  lastTerm,
	}

	ctx, cancel := context.WithTimeout(context.Background(), transport.RequestVoteTimeout)
	defer cancel()
	start := time.Now()
	replies := transport.BroadcastRequestVote(ctx, n.transport, peers, req)
	elapsed := time.Since(start)
	for _, reply := range replies {
		n.observeRPCLatency("RequestVote", elapsed, reply != nil)
	}

	votes := 1 // self
	majority := n.majority()

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, reply := range replies {
		if reply == nil {
			continue
		}
		if reply.Term > n.currentTerm {
			n.bumpTermLocked(reply.Term)
			return
		}
		if n.role != Candidate || n.currentTerm != term {
			return // a context switch moved us to a new term or role
		}
		if !reply.VoteGranted {
			continue
		}
		votes++
		if votes >= majority {
			n.becomeLeaderLocked()
			return
		}
	}
}

// becomeLeaderLocked transitions to Leader, resets per-peer replication
// state, and starts the heartbeat loop. Caller holds n.mu and must have
// already verified the node is still Candidate in the expected term.
func (n *Node) becomeLeaderLocked() {
	n.role = Leader
	n.leaderID = n.id

	lastIndex := n.log.LastIndex()
	n.nextIndex = make(map[string]uint64, len(n.peers))
	n.matchIndex = make(map[string]uint64, len(n.peers))
	for _, p := range n.peers {
		n.nextIndex[p] = lastIndex + 1
		n.matchIndex[p] = 0
	}
	n.pendingCommits = make(map[uint64]chan bool)

	stopCh := make(chan struct{})
	n.leaderStopCh = stopCh
	term := n.currentTerm
	n.reportLocked()

	n.logger.Info("became leader", zap.Uint64("term", term))

	go n.heartbeatLoop(term, stopCh)
}

// handleRequestVoteLocked implements §4.4's RequestVote handler. Caller
// holds n.mu.
func (n *Node) handleRequestVoteLocked(req transport.RequestVoteArgs) transport.RequestVoteReply {
	if req.Term < n.currentTerm {
		return transport.RequestVoteReply{Term: n.currentTerm, VoteGranted: false}
	}
	if req.Term > n.currentTerm {
		n.bumpTermLocked(req.Term)
	}

	upToDate := req.LastLogTerm > n.log.LastTerm() ||
		(req.LastLogTerm == n.log.LastTerm() && req.LastLogIndex >= n.log.LastIndex())

	grant := req.Term == n.currentTerm &&
		(n.votedFor == "" || n.votedFor == req.CandidateID) &&
		upToDate

	if grant {
		n.votedFor = req.CandidateID
		n.resetElectionTimerLocked()
	}

	return transport.RequestVoteReply{Term: n.currentTerm, VoteGranted: grant}
}
