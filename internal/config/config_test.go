package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeers(t *testing.T) {
	peers, err := parsePeers("n1:host1:8080:9090,n2:host2:8081:9091")
	require.NoError(t, err)
	require.Len(t, peers, 2)
	assert.Equal(t, Peer{NodeID: "n1", Host: "host1", HTTPPort: 8080, GRPCPort: 9090}, peers[0])
	assert.Equal(t, "host2:9091", peers[1].GRPCAddr())
}

func TestParsePeersEmpty(t *testing.T) {
	peers, err := parsePeers("")
	require.NoError(t, err)
	assert.Nil(t, peers)
}

func TestParsePeersMalformed(t *testing.T) {
	_, err := parsePeers("not-enough-fields")
	assert.Error(t, err)
}
