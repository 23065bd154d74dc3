package server

import (
	"net/http"
)

func (s *Service) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.kpis.Snapshot(r.Context())
	if err != nil {
		s.handleError(w, r, err, "Failed to load metrics")
		return
	}

	s.writeJSON(w, http.StatusOK, snapshot)
}
