// Package transport defines the peer-to-peer RPC surface every canvasraft
// node uses to talk to the rest of the cluster, independent of whatever
// wire encoding backs a particular PeerTransport implementation.
package transport

import (
	"context"
	"sync"
	"time"

	"canvasraft/internal/raftlog"
)

// Per-call timeout defaults, per the peer RPC contract. Variables, not
// constants, so the composition root can override them from configuration
// before starting a node.
var (
	RequestVoteTimeout   = 2 * time.Second
	AppendEntriesTimeout = 1 * time.Second
	HealthCheckTimeout   = 1 * time.Second
	SubmitPixelTimeout   = 5 * time.Second
)

// RequestVoteArgs is the RequestVote RPC payload.
type RequestVoteArgs struct {
	Term         uint64
	CandidateID  string
	LastLogIndex uint64
	LastLogTerm  uint64
}

// RequestVoteReply is the RequestVote RPC response.
type RequestVoteReply struct {
	Term        uint64
	VoteGranted bool
}

// AppendEntriesArgs is the AppendEntries RPC payload. An empty Entries
// slice is a heartbeat.
type AppendEntriesArgs struct {
	Term         uint64
	LeaderID     string
	PrevLogIndex uint64
	PrevLogTerm  uint64
	Entries      []raftlog.LogEntry
	LeaderCommit uint64
}

// AppendEntriesReply is the AppendEntries RPC response.
type AppendEntriesReply struct {
	Term       uint64
	Success    bool
	MatchIndex uint64
}

// SubmitPixelArgs is the SubmitPixel RPC payload, used for follower-to-leader
// forwarding.
type SubmitPixelArgs struct {
	X     uint32
	Y     uint32
	Color uint32
}

// SubmitPixelReply is the SubmitPixel RPC response.
type SubmitPixelReply struct {
	Success bool
}

// HealthCheckArgs is the HealthCheck RPC payload.
type HealthCheckArgs struct {
	NodeID string
}

// HealthCheckReply is the HealthCheck RPC response.
type HealthCheckReply struct {
	NodeID string
	Status string
}

// PeerTransport is the point-to-point RPC surface a RaftNode dials out on.
// Every method is cancellation-safe: a ctx deadline exceeded surfaces as a
// transport error, never as a synthesized term-0 or success reply.
type PeerTransport interface {
	RequestVote(ctx context.Context, peerID string, args RequestVoteArgs) (*RequestVoteReply, error)
	AppendEntries(ctx context.Context, peerID string, args AppendEntriesArgs) (*AppendEntriesReply, error)
	SubmitPixel(ctx context.Context, peerID string, args SubmitPixelArgs) (*SubmitPixelReply, error)
	HealthCheck(ctx context.Context, peerID string, args HealthCheckArgs) (*HealthCheckReply, error)
	Close() error
}

// BroadcastRequestVote fans req to every peer in peerIDs concurrently and
// returns replies in peerIDs order; a failed or timed-out peer gets a nil
// entry rather than a substituted zero-value reply.
func BroadcastRequestVote(ctx context.Context, t PeerTransport, peerIDs []string, req RequestVoteArgs) []*RequestVoteReply {
	out := make([]*RequestVoteReply, len(peerIDs))
	var wg sync.WaitGroup
	for i, id := range peerIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, RequestVoteTimeout)
			defer cancel()
			reply, err := t.RequestVote(cctx, id, req)
			if err == nil {
				out[i] = reply
			}
		}(i, id)
	}
	wg.Wait()
	return out
}

// BroadcastAppendEntries fans a per-peer AppendEntries request, built by
// argsFor, to every peer concurrently and returns replies in peerIDs order.
// Per-peer arguments differ (prev_log_index/entries depend on next_index[p]),
// so the caller supplies a builder rather than a single shared args value.
func BroadcastAppendEntries(ctx context.Context, t PeerTransport, peerIDs []string, argsFor func(peerID string) AppendEntriesArgs) []*AppendEntriesReply {
	out := make([]*AppendEntriesReply, len(peerIDs))
	var wg sync.WaitGroup
	for i, id := range peerIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, AppendEntriesTimeout)
			defer cancel()
			reply, err := t.AppendEntries(cctx, id, argsFor(id))
			if err == nil {
				out[i] = reply
			}
		}(i, id)
	}
	wg.Wait()
	return out
}
