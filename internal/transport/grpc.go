package transport

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"time"

	"canvasraft/raftpb"
)

// peerConn is one lazily-dialed, reused client connection plus the stub
// built on top of it.
type peerConn struct {
	conn   *grpc.ClientConn
	client raftpb.RaftServiceClient
}

// GRPCTransport is the production PeerTransport: one gRPC connection per
// peer, dialed on first use and kept alive, matching the
// dial-lazily-and-reuse pattern a ForeignNode follows in the reference
// corpus.
type GRPCTransport struct {
	mu    sync.Mutex
	addrs map[string]string // node id -> "host:port"
	peers map[string]*peerConn
}

// NewGRPCTransport returns a transport that resolves peer ids via addrs
// ("node_id" -> "host:grpc_port").
func NewGRPCTransport(addrs map[string]string) *GRPCTransport {
	return &GRPCTransport{
		addrs: addrs,
		peers: make(map[string]*peerConn),
	}
}

func (t *GRPCTransport) dial(peerID string) (*peerConn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pc, ok := t.peers[peerID]; ok {
		return pc, nil
	}
	addr, ok := t.addrs[peerID]
	if !ok {
		return nil, fmt.Errorf("transport: unknown peer %q", peerID)
	}
	conn, err := grpc.Dial(addr,
		grpc.WithInsecure(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             3 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, err
	}
	pc := &peerConn{conn: conn, client: raftpb.NewRaftServiceClient(conn)}
	t.peers[peerID] = pc
	return pc, nil
}

func (t *GRPCTransport) RequestVote(ctx context.Context, peerID string, args RequestVoteArgs) (*RequestVoteReply, error) {
	pc, err := t.dial(peerID)
	if err != nil {
		return nil, err
	}
	reply, err := pc.client.RequestVote(ctx, &raftpb.RequestVoteRequest{
		Term:         args.Term,
		CandidateId:  args.CandidateID,
		LastLogIndex: args.LastLogIndex,
		LastLogTerm:  args.LastLogTerm,
	})
	if err != nil {
		return nil, err
	}
	return &RequestVoteReply{Term: reply.GetTerm(), VoteGranted: reply.GetVoteGranted()}, nil
}

func (t *GRPCTransport) AppendEntries(ctx context.Context, peerID string, args AppendEntriesArgs) (*AppendEntriesReply, error) {
	pc, err := t.dial(peerID)
	if err != nil {
		return nil, err
	}
	entries := make([]*raftpb.LogEntry, len(args.Entries))
	for i, e := range args.Entries {
		entries[i] = &raftpb.LogEntry{
			Term:  e.Term,
			Index: e.Index,
			X:     e.Payload.X,
			Y:     e.Payload.Y,
			Color: e.Payload.Color,
		}
	}
	reply, err := pc.client.AppendEntries(ctx, &raftpb.AppendEntriesRequest{
		Term:         args.Term,
		LeaderId:     args.LeaderID,
		PrevLogIndex: args.PrevLogIndex,
		PrevLogTerm:  args.PrevLogTerm,
		Entries:      entries,
		LeaderCommit: args.LeaderCommit,
	})
	if err != nil {
		return nil, err
	}
	return &AppendEntriesReply{
		Term:       reply.GetTerm(),
		Success:    reply.GetSuccess(),
		MatchIndex: reply.GetMatchIndex(),
	}, nil
}

func (t *GRPCTransport) SubmitPixel(ctx context.Context, peerID string, args SubmitPixelArgs) (*SubmitPixelReply, error) {
	pc, err := t.dial(peerID)
	if err != nil {
		return nil, err
	}
	reply, err := pc.client.SubmitPixel(ctx, &raftpb.SubmitPixelRequest{
		X:     args.X,
		Y:     args.Y,
		Color: args.Color,
	})
	if err != nil {
		return nil, err
	}
	return &SubmitPixelReply{Success: reply.GetSuccess()}, nil
}

func (t *GRPCTransport) HealthCheck(ctx context.Context, peerID string, args HealthCheckArgs) (*HealthCheckReply, error) {
	pc, err := t.dial(peerID)
	if err != nil {
		return nil, err
	}
	reply, err := pc.client.HealthCheck(ctx, &raftpb.HealthCheckRequest{NodeId: args.NodeID})
	if err != nil {
		return nil, err
	}
	return &HealthCheckReply{NodeID: reply.GetNodeId(), Status: reply.GetStatus()}, nil
}

// Close tears down every dialed connection.
func (t *GRPCTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var firstErr error
	for _, pc := range t.peers {
		if err := pc.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.peers = make(map[string]*peerConn)
	return firstErr
}
