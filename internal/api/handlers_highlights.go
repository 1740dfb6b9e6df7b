package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/sidebar"
	"github.com/go-chi/chi/v5"
)

// Highlight payloads are small; area screenshots are the largest part.
const maxHighlightBody = 8 << 20

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"highlights": sess.Highlights.List()})
}

func (s *Server) handleAddHighlight(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	var nh highlight.NewHighlight
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHighlightBody)).Decode(&nh); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if nh.Position.PageNumber < 1 {
		jsonError(w, "position.pageNumber must be >= 1", http.StatusBadRequest)
		return
	}

	h := sess.Highlights.Add(nh)
	s.log.Info("highlight added",
		"session_id", sess.ID,
		"highlight_id", h.ID,
		"page", h.Position.PageNumber,
		"rects", len(h.Position.Rects),
	)
	writeJSON(w, http.StatusCreated, h)
}

// handleReplaceHighlights swaps the whole list, assigning ids where missing.
func (s *Server) handleReplaceHighlights(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxHighlightBody))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	list, err := highlight.ParseList(data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Highlights.Replace(list)
	writeJSON(w, http.StatusOK, map[string]any{"highlights": sess.Highlights.List()})
}

func (s *Server) handleResetHighlights(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}
	sess.Highlights.Reset()
	s.log.Info("highlights reset", "session_id", sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

type updateRequest struct {
	Position highlight.PositionPatch `json:"position"`
	Content  highlight.ContentPatch  `json:"content"`
}

func (s *Server) handleUpdateHighlight(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHighlightBody)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Position.PageNumber != nil && *req.Position.PageNumber < 1 {
		jsonError(w, "position.pageNumber must be >= 1", http.StatusBadRequest)
		return
	}

	h, ok := sess.Highlights.Update(chi.URLParam(r, "highlightID"), req.Position, req.Content)
	if !ok {
		jsonError(w, "highlight not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// handleLookupHighlight resolves a "#highlight-<id>" location fragment.
func (s *Server) handleLookupHighlight(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	id := highlight.ParseIDFromHash(r.URL.Query().Get("hash"))
	if id == "" {
		jsonError(w, "hash must look like #"+highlight.HashPrefix+"<id>", http.StatusBadRequest)
		return
	}
	h, ok := sess.Highlights.Get(id)
	if !ok {
		jsonError(w, "highlight not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	out, err := sidebar.RenderString(sess.Highlights.List())
	if err != nil {
		jsonError(w, "failed to render sidebar: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}
