package types

import "time"

// Document records one successful signing operation. Rows are immutable;
// when several exist for a submission the most recent by SignedAt wins.
type Document struct {
	ID           string    `db:"id"`
	SubmissionID string    `db:"submission_id"`
	AdminID      string    `db:"admin_id"`
	OriginalURL  string    `db:"original_url"`
	SignedURL    string    `db:"signed_url"`
	DocumentHash string    `db:"document_hash"`
	SignedAt     time.Time `db:"signed_at"`
}

type DocumentType string

const (
	DocumentPostingLetter     DocumentType = "postingLetter"
	DocumentAppointmentLetter DocumentType = "appointmentLetter"
)

func (d DocumentType) Valid() bool {
	return d == DocumentPostingLetter || d == DocumentAppointmentLetter
}

// LetterType selects which generated artifact a personnel downloads.
type LetterType string

const (
	LetterAppointment     LetterType = "appointment"
	LetterEndorsed        LetterType = "endorsed"
	LetterJobConfirmation LetterType = "job_confirmation"
)

func (l LetterType) Valid() bool {
	switch l {
	case LetterAppointment, LetterEndorsed, LetterJobConfirmation:
		return true
	}
	return false
}

// Template is an uploaded letter template record.
type Template struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	FileURL   string    `db:"file_url"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
