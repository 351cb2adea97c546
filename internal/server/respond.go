package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"naspac/pkg/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: message})
}

// respondEngineError maps the engine's error taxonomy onto HTTP status
// codes. Validation kinds carry a caller-safe message; anything else is
// logged and collapsed to a generic 500.
func (s *Service) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrForbidden):
		s.respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, types.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrConflict):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, types.ErrPrecondition), types.IsInvalidTransition(err):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrExternalService):
		s.logger.WithError(err).Error("engine operation failed on external service")
		s.respondError(w, http.StatusBadGateway, "upstream service failure")
	default:
		s.logger.WithError(err).Error("engine operation failed")
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
