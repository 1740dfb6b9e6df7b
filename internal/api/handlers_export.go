package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dgallion1/pdfmark/internal/export"
	"github.com/go-chi/chi/v5"
)

// handleExport queues an export of the session's current highlight list and
// streams the annotated PDF back once it is done.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := s.lookupSession(w, r)
	if sess == nil {
		return
	}

	filename := sanitizeFilename(s.cfg.DownloadName)
	job := export.NewJob(sess.ID, filename, sess.Doc.Bytes(), sess.Highlights.List())
	if err := s.orchestrator.Submit(job); err != nil {
		s.log.Warn("export rejected", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	select {
	case <-job.Done():
	case <-r.Context().Done():
		// Client went away; the job still finishes and stays pollable.
		return
	}

	out, err := job.Output()
	if err != nil {
		w.Header().Set("X-Export-Job", job.ID)
		jsonError(w, err.Error(), exportStatusCode(err))
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Header().Set("X-Export-Job", job.ID)
	w.Header().Set("X-Export-Annotations", strconv.Itoa(snap.Result.Total()))
	w.Write(out)
}

func exportStatusCode(err error) int {
	switch export.KindOf(err) {
	case export.KindPageIndex, export.KindInvalidRect:
		return http.StatusUnprocessableEntity
	case export.KindDocumentLoad:
		return http.StatusBadGateway
	case export.KindCanceled:
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, export.ErrStopped) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) handleExportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}
