package raft

import (
	"context"
	"errors"

	"canvasraft/internal/transport"
)

// ErrShuttingDown is returned by a Node's PeerHandler methods once Stop has
// been called, so an in-flight RPC completes as a transport error rather
// than acting on a node that has already torn down its leader state.
var ErrShuttingDown = errors.New("raft: node is shutting down")

// The methods below satisfy transport.PeerHandler, letting a Node sit on
// either side of a FakeTransport (tests) or a GRPCServer (production).

func (n *Node) HandleRequestVote(ctx context.Context, args transport.RequestVoteArgs) (*transport.RequestVoteReply, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrShuttingDown
	}
	reply := n.handleRequestVoteLocked(args)
	return &reply, nil
}

func (n *Node) HandleAppendEntries(ctx context.Context, args transport.AppendEntriesArgs) (*transport.AppendEntriesReply, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrShuttingDown
	}
	reply := n.handleAppendEntriesLocked(args)
	return &reply, nil
}

func (n *Node) HandleSubmitPixel(ctx context.Context, args transport.SubmitPixelArgs) (*transport.SubmitPixelReply, error) {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return nil, ErrShuttingDown
	}
	ok := n.SubmitPixel(ctx, args.X, args.Y, args.Color)
	return &transport.SubmitPixelReply{Success: ok}, nil
}

func (n *Node) HandleHealthCheck(ctx context.Context, args transport.HealthCheckArgs) (*transport.HealthCheckReply, error) {
	n.mu.Lock()
	closed := n.closed
	n.mu.Unlock()
	if closed {
		return nil, ErrShuttingDown
	}
	return &transport.HealthCheckReply{NodeID: n.id, Status: "ok"}, nil
}
