package httpapi

import "net/http"

// handleDebugSnapshot returns the node's most recently cached gob-encoded
// snapshot. It is a supplemental diagnostic surface, not part of the
// authoritative client contract, and never reads from or writes to disk.
func (s *Server) handleDebugSnapshot(w http.ResponseWriter, r *http.Request) {
	data := s.node.LatestSnapshot()
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
