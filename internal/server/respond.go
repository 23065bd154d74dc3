package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"follohjelp/pkg/types"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to write response")
	}
}

func (s *Service) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// handleError turns validation failures into a 400 carrying their message.
// Everything else is logged and answered with fallback.
func (s *Service) handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if types.IsValidation(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := s.logger.WithError(err).WithField("request_id", requestIDFromContext(r.Context()))

	var storeErr *types.RecordStoreError
	if errors.As(err, &storeErr) {
		entry = entry.WithField("table", storeErr.Table).WithField("status", storeErr.Status)
	}

	entry.Error(fallback)
	s.writeError(w, http.StatusInternalServerError, fallback)
}

// decodeBody accepts JSON or a posted form into target.
func (s *Service) decodeBody(r *http.Request, target any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return &types.ValidationError{Field: "body", Message: "Ugyldig skjema"}
		}
		if err := decoder.Decode(target, r.PostForm); err != nil {
			return &types.ValidationError{Field: "body", Message: "Ugyldig skjema"}
		}
		return nil
	default:
		if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(target); err != nil {
			return &types.ValidationError{Field: "body", Message: "Ugyldig forespørsel"}
		}
		return nil
	}
}
