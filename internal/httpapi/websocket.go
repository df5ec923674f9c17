package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"canvasraft/internal/canvas"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type    string      `json:"type"`
	Node    *wsNodeInfo `json:"node,omitempty"`
	Content interface{} `json:"content,omitempty"`
	Status  string      `json:"status,omitempty"`
}

type wsNodeInfo struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type wsPixelContent struct {
	X     uint32 `json:"x"`
	Y     uint32 `json:"y"`
	Color uint32 `json:"color"`
}

// connSink adapts one websocket connection to canvas.Sink. Delivery is
// non-blocking: a full outbox means the connection is falling behind and
// the update is dropped rather than stalling the apply path. The outbox is
// never closed — Unsubscribe only stops future Broadcast calls from
// reaching it, so a Send racing the connection's teardown must stay safe,
// and an unclosed, unreferenced channel is simply garbage collected.
type connSink struct {
	outbox chan canvas.Update
}

func newConnSink() *connSink {
	return &connSink{outbox: make(chan canvas.Update, 64)}
}

func (s *connSink) Send(u canvas.Update) bool {
	select {
	case s.outbox <- u:
		return true
	default:
		return false
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	sink := newConnSink()
	s.broadcaster.Subscribe(id, sink)

	state := s.node.GetState()
	_ = conn.WriteJSON(wsMessage{
		Type: "connected",
		Node: &wsNodeInfo{ID: state.NodeID, Role: state.Role.String()},
	})

	stopWriter := make(chan struct{})
	writerDone := make(chan struct{})
	pongs := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-stopWriter:
				return
			case <-pongs:
				if err := conn.WriteJSON(wsMessage{Type: "pong", Status: "ok"}); err != nil {
					return
				}
			case u := <-sink.outbox:
				if err := conn.WriteJSON(wsMessage{
					Type:    "pixel",
					Content: wsPixelContent{X: u.X, Y: u.Y, Color: u.Color},
				}); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var in wsMessage
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		if in.Type == "ping" {
			select {
			case pongs <- struct{}{}:
			case <-writerDone:
			}
		}
	}

	s.broadcaster.Unsubscribe(id)
	close(stopWriter)
	<-writerDone
}
