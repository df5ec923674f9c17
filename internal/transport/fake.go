package transport

import (
	"context"
	"errors"
	"sync"
)

// ErrUnreachable is returned by FakeTransport for a peer marked down, mimicking
// a real connection refused / no-route condition.
var ErrUnreachable = errors.New("transport: peer unreachable")

// PeerHandler is the inbound side of PeerTransport: whatever owns a node's
// Raft state implements this to receive the four peer RPCs. RaftNode is the
// production implementation; tests can supply a stub.
type PeerHandler interface {
	HandleRequestVote(ctx context.Context, args RequestVoteArgs) (*RequestVoteReply, error)
	HandleAppendEntries(ctx context.Context, args AppendEntriesArgs) (*AppendEntriesReply, error)
	HandleSubmitPixel(ctx context.Context, args SubmitPixelArgs) (*SubmitPixelReply, error)
	HandleHealthCheck(ctx context.Context, args HealthCheckArgs) (*HealthCheckReply, error)
}

// FakeTransport is an in-process PeerTransport that dispatches directly to
// registered PeerHandlers, with no real network in between. It lets the
// scenario tests in internal/raft drive a whole cluster deterministically
// and exercise partitions/peer-down conditions by toggling reachability.
type FakeTransport struct {
	mu          sync.Mutex
	handlers    map[string]PeerHandler
	unreachable map[string]bool
}

// NewFakeTransport returns a transport with no peers registered.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		handlers:    make(map[string]PeerHandler),
		unreachable: make(map[string]bool),
	}
}

// Register makes id's handler reachable through this transport.
func (f *FakeTransport) Register(id string, h PeerHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[id] = h
}

// SetReachable toggles whether RPCs to id succeed; used to simulate a node
// crashing or a network partition in scenario tests.
func (f *FakeTransport) SetReachable(id string, reachable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unreachable[id] = !reachable
}

func (f *FakeTransport) handlerFor(id string) (PeerHandler, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unreachable[id] {
		return nil, ErrUnreachable
	}
	h, ok := f.handlers[id]
	if !ok {
		return nil, ErrUnreachable
	}
	return h, nil
}

func (f *FakeTransport) RequestVote(ctx context.Context, peerID string, args RequestVoteArgs) (*RequestVoteReply, error) {
	h, err := f.handlerFor(peerID)
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return h.HandleRequestVote(ctx, args)
}

func (f *FakeTransport) AppendEntries(ctx context.Context, peerID string, args AppendEntriesArgs) (*AppendEntriesReply, error) {
	h, err := f.handlerFor(peerID)
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return h.HandleAppendEntries(ctx, args)
}

func (f *FakeTransport) SubmitPixel(ctx context.Context, peerID string, args SubmitPixelArgs) (*SubmitPixelReply, error) {
	h, err := f.handlerFor(peerID)
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return h.HandleSubmitPixel(ctx, args)
}

func (f *FakeTransport) HealthCheck(ctx context.Context, peerID string, args HealthCheckArgs) (*HealthCheckReply, error) {
	h, err := f.handlerFor(peerID)
	if err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return h.HandleHealthCheck(ctx, args)
}

// Close is a no-op for the fake; there is no real connection to release.
func (f *FakeTransport) Close() error { return nil }
