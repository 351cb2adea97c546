package server

import (
	"net/http"

	"naspac/internal/workflow"
)

func (s *Service) handleUploadSignature(w http.ResponseWriter, r *http.Request) {
	s.handleUploadImage(w, r, workflow.ImageSignature)
}

func (s *Service) handleUploadStamp(w http.ResponseWriter, r *http.Request) {
	s.handleUploadImage(w, r, workflow.ImageStamp)
}

func (s *Service) handleUploadImage(w http.ResponseWriter, r *http.Request, kind workflow.ImageKind) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	image, contentType, ok := s.formFileWithType(w, r, "file")
	if !ok {
		return
	}

	publicURL, err := s.engine.UploadEndorsementImage(r.Context(), actor.ID, kind, image, contentType)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"url": publicURL})
}

func (s *Service) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	data, contentType, ok := s.formFileWithType(w, r, "file")
	if !ok {
		return
	}

	name := r.FormValue("name")
	templateType := r.FormValue("type")
	if templateType == "" {
		templateType = "job_confirmation"
	}

	template, err := s.engine.UploadTemplate(r.Context(), actor.ID, name, templateType, data, contentType)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, template)
}
