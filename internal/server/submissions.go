package server

import (
	"io"
	"net/http"

	"naspac/internal/workflow"
	"naspac/pkg/types"

	"github.com/alexedwards/flow"
)

// maxUploadBytes caps multipart submissions; letters and forms are a few
// MB of scanned PDF at most.
const maxUploadBytes = 25 << 20

type onboardingForm struct {
	FullName           string `form:"fullName"`
	NssNumber          string `form:"nssNumber"`
	Gender             string `form:"gender"`
	Email              string `form:"email"`
	PhoneNumber        string `form:"phoneNumber"`
	PlaceOfResidence   string `form:"placeOfResidence"`
	UniversityAttended string `form:"universityAttended"`
	RegionOfSchool     string `form:"regionOfSchool"`
	ProgramStudied     string `form:"programStudied"`
	DivisionPostedTo   string `form:"divisionPostedTo"`
	YearOfNss          int    `form:"yearOfNss"`
}

func (s *Service) handleSubmitOnboarding(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var input onboardingForm
	if err := decoder.Decode(&input, r.MultipartForm.Value); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid submission fields")
		return
	}

	postingLetter, ok := s.formFile(w, r, "postingLetter", "application/pdf")
	if !ok {
		return
	}
	appointmentLetter, ok := s.formFile(w, r, "appointmentLetter", "application/pdf")
	if !ok {
		return
	}

	view, err := s.engine.SubmitOnboarding(r.Context(), actor.ID, workflow.OnboardingInput{
		FullName:           input.FullName,
		NssNumber:          input.NssNumber,
		Gender:             input.Gender,
		Email:              input.Email,
		PhoneNumber:        input.PhoneNumber,
		PlaceOfResidence:   input.PlaceOfResidence,
		UniversityAttended: input.UniversityAttended,
		RegionOfSchool:     input.RegionOfSchool,
		ProgramStudied:     input.ProgramStudied,
		DivisionPostedTo:   input.DivisionPostedTo,
		YearOfNss:          input.YearOfNss,
		PostingLetter:      postingLetter,
		AppointmentLetter:  appointmentLetter,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, view)
}

func (s *Service) handleSubmitVerificationForm(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form, contentType, ok := s.formFileWithType(w, r, "verificationForm")
	if !ok {
		return
	}

	view, err := s.engine.SubmitVerificationForm(r.Context(), actor.ID, form, contentType)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

type statusUpdateRequest struct {
	Status  types.SubmissionStatus `json:"status"`
	Comment string                 `json:"comment"`
}

func (s *Service) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actorFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
		return
	}
	submissionID := flow.Param(r.Context(), "submissionID")

	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := s.engine.UpdateSubmissionStatus(r.Context(), actor.ID, submissionID, req.Status, req.Comment)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, view)
}

// formFile reads one uploaded file and enforces its declared content
// type when wantType is non-empty. A false return means the response has
// already been written.
func (s *Service) formFile(w http.ResponseWriter, r *http.Request, field, wantType string) ([]byte, bool) {
	data, contentType, ok := s.formFileWithType(w, r, field)
	if !ok {
		return nil, false
	}
	if wantType != "" && contentType != wantType {
		s.respondError(w, http.StatusBadRequest, field+" must be "+wantType)
		return nil, false
	}
	return data, true
}

func (s *Service) formFileWithType(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file "+field)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file "+field)
		return nil, "", false
	}
	return data, header.Header.Get("Content-Type"), true
}
