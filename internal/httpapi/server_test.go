package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasraft/internal/canvas"
	"canvasraft/internal/codec"
	"canvasraft/internal/raft"
)

type fakeRaftAPI struct {
	submitResult bool
	pixels       []uint32
	state        raft.State
	snapshot     []byte
}

func (f *fakeRaftAPI) SubmitPixel(ctx context.Context, x, y, color uint32) bool {
	return f.submitResult
}

func (f *fakeRaftAPI) GetAllPixels() []uint32 {
	return f.pixels
}

func (f *fakeRaftAPI) GetState() raft.State {
	return f.state
}

func (f *fakeRaftAPI) LatestSnapshot() []byte {
	return f.snapshot
}

func newTestServer() (*Server, *fakeRaftAPI, *canvas.ClientBroadcaster) {
	api := &fakeRaftAPI{
		submitResult: true,
		pixels:       make([]uint32, 4),
		state:        raft.State{NodeID: "n0", Role: raft.Leader, Term: 2},
	}
	b := canvas.NewClientBroadcaster()
	s := NewServer(api, b, 2, nil)
	return s, api, b
}

func TestSubmitPixelHandler(t *testing.T) {
	s, _, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	body, _ := json.Marshal(submitPixelRequest{X: 1, Y: 1, Color: 5})
	resp, err := http.Post(srv.URL+"/submit_pixel", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out submitPixelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
}

func TestSubmitPixelOutOfBounds(t *testing.T) {
	s, _, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	body, _ := json.Marshal(submitPixelRequest{X: 99, Y: 1, Color: 5})
	resp, err := http.Post(srv.URL+"/submit_pixel", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out submitPixelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
}

func TestPixelsHandler(t *testing.T) {
	s, api, _ := newTestServer()
	api.pixels = []uint32{1, 2, 3, 4}
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pixels")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []uint32
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, []uint32{1, 2, 3, 4}, out)
}

func TestStatusAndHealthHandlers(t *testing.T) {
	s, _, _ := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	require.NoError(t, err)
	var status statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, "leader", status.Role)
	assert.Equal(t, uint64(2), status.Term)

	healthResp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer healthResp.Body.Close()
	assert.Equal(t, http.StatusOK, healthResp.StatusCode)
}

func TestDebugSnapshotHandler(t *testing.T) {
	s, api, _ := newTestServer()
	want, err := codec.EncodeSnapshot(codec.Snapshot{NodeID: "n0", Pixels: []uint32{7, 8}})
	require.NoError(t, err)
	api.snapshot = want
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	snap, err := codec.DecodeSnapshot(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "n0", snap.NodeID)
	assert.Equal(t, []uint32{7, 8}, snap.Pixels)
}

func TestWebsocketConnectAndBroadcast(t *testing.T) {
	s, _, broadcaster := newTestServer()
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var connected wsMessage
	require.NoError(t, conn.ReadJSON(&connected))
	assert.Equal(t, "connected", connected.Type)

	require.Eventually(t, func() bool {
		return broadcaster.Count() == 1
	}, time.Second, 5*time.Millisecond)

	broadcaster.Broadcast(canvas.Update{X: 1, Y: 2, Color: 9})

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var pixelMsg wsMessage
	require.NoError(t, conn.ReadJSON(&pixelMsg))
	assert.Equal(t, "pixel", pixelMsg.Type)
}
