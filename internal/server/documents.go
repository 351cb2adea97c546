package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"naspac/pkg/types"

	"github.com/alexedwards/flow"
)

type signRequest struct {
	SubmissionID string             `json:"submissionId"`
	DocumentType types.DocumentType `json:"documentType"`
}

func (s *Service) handleSignDocument(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	var req signRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SubmissionID == "" {
		s.respondError(w, http.StatusBadRequest, "submissionId is required")
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = types.DocumentAppointmentLetter
	}

	result, err := s.engine.SignDocument(r.Context(), actor.ID, req.SubmissionID, req.DocumentType)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Service) handleDownloadLetter(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}
	letter := types.LetterType(flow.Param(r.Context(), "letterType"))

	download, err := s.engine.DownloadLetter(r.Context(), actor.ID, letter)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(download.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(download.Data); err != nil {
		s.logger.WithError(err).Error("failed to stream letter")
	}
}

func (s *Service) handleStatusCounts(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	var statuses []types.SubmissionStatus
	for _, raw := range strings.Split(r.URL.Query().Get("statuses"), ",") {
		if raw = strings.TrimSpace(raw); raw != "" {
			statuses = append(statuses, types.SubmissionStatus(raw))
		}
	}

	counts, err := s.engine.StatusCounts(r.Context(), actor.ID, statuses)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, counts)
}

func (s *Service) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	skip := queryUint(r, "skip", 0)
	take := queryUint(r, "take", 20)
	if take > 100 {
		take = 100
	}

	notifications, err := s.engine.Notifications(r.Context(), actor.ID, skip, take)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if notifications == nil {
		notifications = []*types.Notification{}
	}

	s.respondJSON(w, http.StatusOK, notifications)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func queryUint(r *http.Request, name string, fallback uint64) uint64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
