// Package raft implements the replicated state machine that drives a
// canvasraft node: role state machine, persistent term/vote/log, election,
// replication, commit advancement, and the submit/read client contract.
package raft

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"canvasraft/internal/canvas"
	"canvasraft/internal/metrics"
	"canvasraft/internal/raftlog"
	"canvasraft/internal/transport"
)

// Role is the node's position in the Raft state machine.
type Role int

const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Follower:
		return "follower"
	case Candidate:
		return "candidate"
	case Leader:
		return "leader"
	default:
		return "unknown"
	}
}

// Config carries the tunables spec.md §6 exposes as environment variables.
type Config struct {
	NodeID             string
	PeerIDs            []string // cluster members other than self
	ElectionTimeoutMin time.Duration
	ElectionTimeoutMax time.Duration
	HeartbeatInterval  time.Duration
	SubmitTimeout      time.Duration
}

// DefaultConfig fills in the defaults spec.md §5 and §6 specify.
func DefaultConfig(nodeID string, peerIDs []string) Config {
	return Config{
		NodeID:             nodeID,
		PeerIDs:            peerIDs,
		ElectionTimeoutMin: 1500 * time.Millisecond,
		ElectionTimeoutMax: 3000 * time.Millisecond,
		HeartbeatInterval:  1000 * time.Millisecond,
		SubmitTimeout:      30 * time.Second,
	}
}

// Node is one Raft replica. All mutable state below the mutex is owned by
// whichever goroutine currently holds it; handlers that resume after an
// unlocked RPC call re-check currentTerm/role before acting on the result,
// standing in for the single-threaded event loop the source assumes.
type Node struct {
	mu sync.Mutex

	id        string
	peers     []string
	transport transport.PeerTransport
	canvas    *canvas.Canvas
	logger    *zap.Logger
	cfg       Config
	rng       *rand.Rand

	currentTerm uint64
	votedFor    string // "" means no vote cast this term
	log         *raftlog.ReplicatedLog

	commitIndex uint64
	lastApplied uint64
	role        Role
	leaderID    string

	nextIndex      map[string]uint64
	matchIndex     map[string]uint64
	pendingCommits map[uint64]chan bool
	leaderStopCh   chan struct{}

	electionTimer *time.Timer

	closed bool
	doneCh chan struct{}

	metrics       *metrics.Metrics
	snapshotCache *SnapshotCache
}

// SetMetrics attaches the Prometheus collector set this node reports
// against. Optional; a nil metrics pointer (the default) disables
// instrumentation entirely.
func (n *Node) SetMetrics(m *metrics.Metrics) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.metrics = m
}

// reportLocked pushes the node's current term/role/commit progress to its
// metrics collector, if one is attached. Caller holds n.mu.
func (n *Node) reportLocked() {
	if n.metrics == nil {
		return
	}
	n.metrics.Term.Set(float64(n.currentTerm))
	n.metrics.SetRole(n.role.String())
	n.metrics.CommitIndex.Set(float64(n.commitIndex))
	n.metrics.LastApplied.Set(float64(n.lastApplied))
}

// observeRPCLatency records one outbound peer RPC's wall-clock latency
// against the attached metrics collector, labeled by method and outcome.
// No-op if no metrics collector is attached.
func (n *Node) observeRPCLatency(method string, d time.Duration, ok bool) {
	n.mu.Lock()
	m := n.metrics
	n.mu.Unlock()
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.RPCLatency.WithLabelValues(method, outcome).Observe(d.Seconds())
}

// NewNode constructs a Follower node with an empty log and term 0.
func NewNode(cfg Config, t transport.PeerTransport, c *canvas.Canvas, logger *zap.Logger) *Node {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Node{
		id:        cfg.NodeID,
		peers:     append([]string(nil), cfg.PeerIDs...),
		transport: t,
		canvas:    c,
		logger:    logger.With(zap.String("node", cfg.NodeID)),
		cfg:       cfg,
		rng:            rand.New(rand.NewSource(int64(len(cfg.NodeID))*2654435761 + time.Now().UnixNano())),
		log:            raftlog.New(),
		role:           Follower,
		pendingCommits: make(map[uint64]chan bool),
		doneCh:         make(chan struct{}),
		snapshotCache:  NewSnapshotCache(),
	}
	return n
}

// Start arms the election timer. The node does nothing else until either
// its own timer fires or it hears from a peer.
func (n *Node) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetElectionTimerLocked()
}

// Stop cancels the election/heartbeat timers, fails every pending client
// submission with "shutting down", and closes the peer transport.
// Idempotent.
func (n *Node) Stop() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	if n.electionTimer != nil {
		n.electionTimer.Stop()
	}
	n.failLeaderStateLocked()
	close(n.doneCh)
	n.mu.Unlock()

	_ = n.transport.Close()
}

// State returns a read-only snapshot of the fields the façade and tests
// need to observe without reaching into the lock themselves.
type State struct {
	NodeID       string
	Term         uint64
	Role         Role
	LeaderID     string
	CommitIndex  uint64
	LastApplied  uint64
	LastLogIndex uint64
}

// GetState returns a snapshot of the node's current term/role/leader.
func (n *Node) GetState() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return State{
		NodeID:       n.id,
		Term:         n.currentTerm,
		Role:         n.role,
		LeaderID:     n.leaderID,
		CommitIndex:  n.commitIndex,
		LastApplied:  n.lastApplied,
		LastLogIndex: n.log.LastIndex(),
	}
}

func (n *Node) majority() int {
	total := len(n.peers) + 1
	return total/2 + 1
}

func (n *Node) randomElectionTimeout() time.Duration {
	span := n.cfg.ElectionTimeoutMax - n.cfg.ElectionTimeoutMin
	if span <= 0 {
		return n.cfg.ElectionTimeoutMin
	}
	return n.cfg.ElectionTimeoutMin + time.Duration(n.rng.Int63n(int64(span)))
}

func (n *Node) resetElectionTimerLocked() {
	d := n.randomElectionTimeout()
	if n.electionTimer == nil {
		n.electionTimer = time.AfterFunc(d, n.onElectionTimeout)
		return
	}
	n.electionTimer.Reset(d)
}

func (n *Node) onElectionTimeout() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || n.role == Leader {
		return
	}
	n.startElectionLocked()
}

// bumpTermLocked applies the common term-update rule: any message carrying
// a higher term forces current_term forward, clears voted_for/leader_id,
// and steps down to Follower before any other per-handler logic runs.
func (n *Node) bumpTermLocked(term uint64) {
	n.currentTerm = term
	n.votedFor = ""
	n.leaderID = ""
	n.role = Follower
	n.failLeaderStateLocked()
	n.resetElectionTimerLocked()
	n.reportLocked()
}

// failLeaderStateLocked clears next_index/match_index, stops the heartbeat
// loop if one is running, and fails every pending client submission with
// "not leader" (or "shutting down" when called from Stop).
func (n *Node) failLeaderStateLocked() {
	if n.leaderStopCh != nil {
		close(n.leaderStopCh)
		n.leaderStopCh = nil
	}
	n.nextIndex = nil
	n.matchIndex = nil
	for idx, ch := range n.pendingCommits {
		select {
		case ch <- false:
		default:
		}
		delete(n.pendingCommits, idx)
	}
}
