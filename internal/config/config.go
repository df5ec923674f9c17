// Package config loads the environment-variable driven configuration every
// canvasraft node needs at startup.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Peer identifies one other cluster member's address.
type Peer struct {
	NodeID   string
	Host     string
	HTTPPort int
	GRPCPort int
}

// Config is every tunable spec.md §6 names, bound from the environment.
type Config struct {
	NodeID   string
	Host     string
	HTTPPort int
	GRPCPort int
	Peers    []Peer

	ElectionTimeoutMin time.Duration
	ElectionTimeoutMax time.Duration
	HeartbeatInterval  time.Duration
	CanvasSize         int

	RequestVoteTimeout   time.Duration
	AppendEntriesTimeout time.Duration
	HealthCheckTimeout   time.Duration
	SubmitPixelTimeout   time.Duration
}

// Load reads configuration from the process environment via viper,
// applying the defaults spec.md §5/§6 call out.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("ELECTION_TIMEOUT_MIN_MS", 1500)
	v.SetDefault("ELECTION_TIMEOUT_MAX_MS", 3000)
	v.SetDefault("HEARTBEAT_INTERVAL_MS", 1000)
	v.SetDefault("CANVAS_SIZE", 64)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("REQUEST_VOTE_TIMEOUT_MS", 2000)
	v.SetDefault("APPEND_ENTRIES_TIMEOUT_MS", 1000)
	v.SetDefault("HEALTH_CHECK_TIMEOUT_MS", 1000)
	v.SetDefault("SUBMIT_PIXEL_TIMEOUT_MS", 5000)

	nodeID := v.GetString("NODE_ID")
	if nodeID == "" {
		return Config{}, fmt.Errorf("config: NODE_ID is required")
	}

	httpPort := v.GetInt("HTTP_PORT")
	if httpPort == 0 {
		return Config{}, fmt.Errorf("config: HTTP_PORT is required")
	}
	grpcPort := v.GetInt("GRPC_PORT")
	if grpcPort == 0 {
		return Config{}, fmt.Errorf("config: GRPC_PORT is required")
	}

	peers, err := parsePeers(v.GetString("PEERS"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		NodeID:   nodeID,
		Host:     v.GetString("HOST"),
		HTTPPort: httpPort,
		GRPCPort: grpcPort,
		Peers:    peers,

		ElectionTimeoutMin: time.Duration(v.GetInt("ELECTION_TIMEOUT_MIN_MS")) * time.Millisecond,
		ElectionTimeoutMax: time.Duration(v.GetInt("ELECTION_TIMEOUT_MAX_MS")) * time.Millisecond,
		HeartbeatInterval:  time.Duration(v.GetInt("HEARTBEAT_INTERVAL_MS")) * time.Millisecond,
		CanvasSize:         v.GetInt("CANVAS_SIZE"),

		RequestVoteTimeout:   time.Duration(v.GetInt("REQUEST_VOTE_TIMEOUT_MS")) * time.Millisecond,
		AppendEntriesTimeout: time.Duration(v.GetInt("APPEND_ENTRIES_TIMEOUT_MS")) * time.Millisecond,
		HealthCheckTimeout:   time.Duration(v.GetInt("HEALTH_CHECK_TIMEOUT_MS")) * time.Millisecond,
		SubmitPixelTimeout:   time.Duration(v.GetInt("SUBMIT_PIXEL_TIMEOUT_MS")) * time.Millisecond,
	}, nil
}

// parsePeers parses a comma-separated "node_id:host:http_port:grpc_port"
// list, as spec.md §6 specifies.
func parsePeers(raw string) ([]Peer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var peers []Peer
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		parts := strings.Split(chunk, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("config: malformed peer spec %q, want node_id:host:http_port:grpc_port", chunk)
		}
		httpPort, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("config: malformed http_port in peer spec %q: %w", chunk, err)
		}
		grpcPort, err := strconv.Atoi(parts[3])
		if err != nil {
			return nil, fmt.Errorf("config: malformed grpc_port in peer spec %q: %w", chunk, err)
		}
		peers = append(peers, Peer{
			NodeID:   parts[0],
			Host:     parts[1],
			HTTPPort: httpPort,
			GRPCPort: grpcPort,
		})
	}
	return peers, nil
}

// GRPCAddr returns the "host:port" a PeerTransport should dial for this peer.
func (p Peer) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", p.Host, p.GRPCPort)
}
