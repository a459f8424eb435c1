package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/me/slurmq/pkg/model"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, s.manager.Snapshot())
}

// validJobID rejects path ids that cannot be job ids. Job ids are uuids.
func validJobID(w http.ResponseWriter, r *http.Request) (string, bool) {
	reqID := RequestIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid job id",
				model.FieldError{Field: "id", Message: "must be a UUID"}))
		return "", false
	}
	return id, true
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	id, ok := validJobID(w, r)
	if !ok {
		return
	}

	for _, status := range s.manager.Snapshot() {
		if status.JobID == id {
			respondOK(w, reqID, status)
			return
		}
	}
	respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("job", id))
}
