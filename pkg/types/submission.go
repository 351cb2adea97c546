package types

import "time"

type SubmissionStatus string

const (
	StatusPending            SubmissionStatus = "PENDING"
	StatusPendingEndorsement SubmissionStatus = "PENDING_ENDORSEMENT"
	StatusEndorsed           SubmissionStatus = "ENDORSED"
	StatusValidated          SubmissionStatus = "VALIDATED"
	StatusCompleted          SubmissionStatus = "COMPLETED"
	StatusRejected           SubmissionStatus = "REJECTED"
)

// AllowedNext returns the set of statuses reachable from s. COMPLETED is
// terminal. REJECTED allows resubmission back to PENDING.
func (s SubmissionStatus) AllowedNext() []SubmissionStatus {
	switch s {
	case StatusPending:
		return []SubmissionStatus{StatusPendingEndorsement, StatusRejected}
	case StatusPendingEndorsement:
		return []SubmissionStatus{StatusEndorsed, StatusRejected}
	case StatusEndorsed:
		return []SubmissionStatus{StatusValidated, StatusRejected}
	case StatusValidated:
		return []SubmissionStatus{StatusCompleted, StatusRejected}
	case StatusRejected:
		return []SubmissionStatus{StatusPending}
	default:
		return nil
	}
}

// CanTransitionTo reports whether target is a legal successor of s.
func (s SubmissionStatus) CanTransitionTo(target SubmissionStatus) bool {
	for _, next := range s.AllowedNext() {
		if next == target {
			return true
		}
	}
	return false
}

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPendingEndorsement, StatusEndorsed,
		StatusValidated, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Submission is a personnel's onboarding record, one per service period.
// Status is only ever mutated through the workflow engine; rows are
// soft-deleted, never removed.
type Submission struct {
	ID                       string           `db:"id"`
	UserID                   string           `db:"user_id"`
	FullName                 string           `db:"full_name"`
	NssNumber                string           `db:"nss_number"`
	Gender                   string           `db:"gender"`
	Email                    string           `db:"email"`
	PhoneNumber              string           `db:"phone_number"`
	PlaceOfResidence         *string          `db:"place_of_residence"`
	UniversityAttended       *string          `db:"university_attended"`
	RegionOfSchool           *string          `db:"region_of_school"`
	ProgramStudied           *string          `db:"program_studied"`
	DivisionPostedTo         string           `db:"division_posted_to"`
	YearOfNss                int              `db:"year_of_nss"`
	Status                   SubmissionStatus `db:"status"`
	PostingLetterURL         *string          `db:"posting_letter_url"`
	AppointmentLetterURL     *string          `db:"appointment_letter_url"`
	VerificationFormURL      *string          `db:"verification_form_url"`
	JobConfirmationLetterURL *string          `db:"job_confirmation_letter_url"`
	CreatedAt                time.Time        `db:"created_at"`
	UpdatedAt                time.Time        `db:"updated_at"`
	DeletedAt                *time.Time       `db:"deleted_at"`
}

// SubmissionView is the projection returned to callers after a mutation.
type SubmissionView struct {
	ID                       string           `json:"id"`
	UserID                   string           `json:"userId"`
	FullName                 string           `json:"fullName"`
	NssNumber                string           `json:"nssNumber"`
	Status                   SubmissionStatus `json:"status"`
	PostingLetterURL         *string          `json:"postingLetterUrl,omitempty"`
	AppointmentLetterURL     *string          `json:"appointmentLetterUrl,omitempty"`
	VerificationFormURL      *string          `json:"verificationFormUrl,omitempty"`
	JobConfirmationLetterURL *string          `json:"jobConfirmationLetterUrl,omitempty"`
}

func (s *Submission) View() *SubmissionView {
	return &SubmissionView{
		ID:                       s.ID,
		UserID:                   s.UserID,
		FullName:                 s.FullName,
		NssNumber:                s.NssNumber,
		Status:                   s.Status,
		PostingLetterURL:         s.PostingLetterURL,
		AppointmentLetterURL:     s.AppointmentLetterURL,
		VerificationFormURL:      s.VerificationFormURL,
		JobConfirmationLetterURL: s.JobConfirmationLetterURL,
	}
}
