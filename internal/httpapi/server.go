// Package httpapi is the HTTP/WebSocket façade that maps external client
// requests onto a RaftNode's submit/subscribe contract.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"canvasraft/internal/canvas"
	"canvasraft/internal/raft"
)

// RaftAPI is the slice of RaftNode the façade depends on, kept narrow so
// it can be faked in tests without standing up a full cluster.
type RaftAPI interface {
	SubmitPixel(ctx context.Context, x, y, color uint32) bool
	GetAllPixels() []uint32
	GetState() raft.State
	LatestSnapshot() []byte
}

// Server is the composition root's HTTP entry point.
type Server struct {
	node        RaftAPI
	broadcaster *canvas.ClientBroadcaster
	canvasSize  int
	logger      *zap.Logger
	router      *mux.Router
}

// NewServer builds the façade's router. canvasSize is needed to bound
// pixel coordinates in request validation before they ever reach RaftNode.
func NewServer(node RaftAPI, broadcaster *canvas.ClientBroadcaster, canvasSize int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		node:        node,
		broadcaster: broadcaster,
		canvasSize:  canvasSize,
		logger:      logger,
		router:      mux.NewRouter(),
	}
	s.routes()
	return s
}

// Router returns the http.Handler to mount on an *http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.HandleFunc("/submit_pixel", s.handleSubmitPixel).Methods(http.MethodPost)
	s.router.HandleFunc("/pixels", s.handlePixels).Methods(http.MethodGet)
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebsocket)
	s.router.HandleFunc("/debug/snapshot", s.handleDebugSnapshot).Methods(http.MethodGet)
}

type submitPixelRequest struct {
	X     uint32 `json:"x"`
	Y     uint32 `json:"y"`
	Color uint32 `json:"color"`
}

type submitPixelResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleSubmitPixel(w http.ResponseWriter, r *http.Request) {
	var req submitPixelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.X >= uint32(s.canvasSize) || req.Y >= uint32(s.canvasSize) {
		writeJSON(w, http.StatusOK, submitPixelResponse{Success: false})
		return
	}

	ok := s.node.SubmitPixel(r.Context(), req.X, req.Y, req.Color)
	writeJSON(w, http.StatusOK, submitPixelResponse{Success: ok})
}

func (s *Server) handlePixels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.node.GetAllPixels())
}

type statusResponse struct {
	NodeID      string `json:"node_id"`
	Role        string `json:"role"`
	Term        uint64 `json:"term"`
	CommitIndex uint64 `json:"commit_index"`
	LeaderID    string `json:"leader_id,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.node.GetState()
	writeJSON(w, http.StatusOK, statusResponse{
		NodeID:      state.NodeID,
		Role:        state.Role.String(),
		Term:        state.Term,
		CommitIndex: state.CommitIndex,
		LeaderID:    state.LeaderID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
