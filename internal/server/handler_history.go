package server

import (
	"net/http"

	"github.com/me/slurmq/pkg/model"
)

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	records, err := s.history.ListJobs(r.Context())
	if err != nil {
		s.logger.Error("list history failed", "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError,
			model.NewInternalError("failed to read job history"))
		return
	}
	respondOK(w, reqID, records)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id, ok := validJobID(w, r)
	if !ok {
		return
	}

	record, err := s.history.GetJob(r.Context(), id)
	if err != nil {
		s.logger.Error("get history failed", "job_id", id, "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError,
			model.NewInternalError("failed to read job history"))
		return
	}
	if record == nil {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("job", id))
		return
	}
	respondOK(w, reqID, record)
}
