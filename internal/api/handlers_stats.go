package api

import (
	"net/http"
)

func (s *Server) handleExportStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"sessions":    s.sessions.Len(),
		"stats":       s.orchestrator.Stats().Snapshot(),
	})
}
