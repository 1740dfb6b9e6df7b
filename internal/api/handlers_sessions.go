package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfmark/internal/fetch"
	"github.com/dgallion1/pdfmark/internal/session"
	"github.com/go-chi/chi/v5"
)

type openRequest struct {
	URL string `json:"url"`
}

// handleOpenSession opens a document from a URL (JSON body) or an uploaded
// file (multipart "file" field).
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		s.openUpload(w, r)
		return
	}

	var req openRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	sess, err := s.opener.OpenURL(r.Context(), req.URL)
	if err != nil {
		s.log.Error("open url failed", "url", req.URL, "error", err)
		code := http.StatusBadGateway
		if errors.Is(err, fetch.ErrTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		jsonError(w, err.Error(), code)
		return
	}
	writeSession(w, sess)
}

func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".pdf" {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", ext), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	sess, err := s.opener.OpenUpload(data, filename)
	if err != nil {
		s.log.Error("open upload failed", "filename", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeSession(w, sess)
}

func writeSession(w http.ResponseWriter, sess *session.Session) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sess.Info())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupSession resolves {sessionID} or writes a 404.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.ReplaceAll(name, `"`, "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
