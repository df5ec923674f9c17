package raft

import (
	"context"

	"canvasraft/internal/raftlog"
	"canvasraft/internal/transport"
	"canvasraft/raftpb"
)

// GRPCServer adapts a Node to raftpb.RaftServiceServer, translating wire
// messages to and from the transport package's plain Go structs.
type GRPCServer struct {
	node *Node
}

// NewGRPCServer wraps node for registration with a *grpc.Server via
// raftpb.RegisterRaftServiceServer.
func NewGRPCServer(node *Node) *GRPCServer {
	return &GRPCServer{node: node}
}

func (s *GRPCServer) RequestVote(ctx context.Context, req *raftpb.RequestVoteRequest) (*raftpb.RequestVoteReply, error) {
	reply, err := s.node.HandleRequestVote(ctx, transport.RequestVoteArgs{
		Term:         req.GetTerm(),
		CandidateID:  req.GetCandidateId(),
		LastLogIndex: req.GetLastLogIndex(),
		LastLogTerm:  req.GetLastLogTerm(),
	})
	if err != nil {
		return nil, err
	}
	return &raftpb.RequestVoteReply{Term: reply.Term, VoteGranted: reply.VoteGranted}, nil
}

func (s *GRPCServer) AppendEntries(ctx context.Context, req *raftpb.AppendEntriesRequest) (*raftpb.AppendEntriesReply, error) {
	entries := make([]raftlog.LogEntry, len(req.GetEntries()))
	for i, e := range req.GetEntries() {
		entries[i] = raftlog.LogEntry{
			Term:  e.GetTerm(),
			Index: e.GetIndex(),
			Payload: raftlog.Pixel{
				X:     e.GetX(),
				Y:     e.GetY(),
				Color: e.GetColor(),
			},
		}
	}
	reply, err := s.node.HandleAppendEntries(ctx, transport.AppendEntriesArgs{
		Term:         req.GetTerm(),
		LeaderID:     req.GetLeaderId(),
		PrevLogIndex: req.GetPrevLogIndex(),
		PrevLogTerm:  req.GetPrevLogTerm(),
		Entries:      entries,
		LeaderCommit: req.GetLeaderCommit(),
	})
	if err != nil {
		return nil, err
	}
	return &raftpb.AppendEntriesReply{
		Term:       reply.Term,
		Success:    reply.Success,
		MatchIndex: reply.MatchIndex,
	}, nil
}

func (s *GRPCServer) SubmitPixel(ctx context.Context, req *raftpb.SubmitPixelRequest) (*raftpb.SubmitPixelReply, error) {
	reply, err := s.node.HandleSubmitPixel(ctx, transport.SubmitPixelArgs{
		X:     req.GetX(),
		Y:     req.GetY(),
		Color: req.GetColor(),
	})
	if err != nil {
		return nil, err
	}
	return &raftpb.SubmitPixelReply{Success: reply.Success}, nil
}

func (s *GRPCServer) HealthCheck(ctx context.Context, req *raftpb.HealthCheckRequest) (*raftpb.HealthCheckReply, error) {
	reply, err := s.node.HandleHealthCheck(ctx, transport.HealthCheckArgs{NodeID: req.GetNodeId()})
	if err != nil {
		return nil, err
	}
	return &raftpb.HealthCheckReply{NodeId: reply.NodeID, Status: reply.Status}, nil
}
