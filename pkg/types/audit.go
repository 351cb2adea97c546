package types

import (
	"fmt"
	"strings"
	"time"
)

// AuditLog is an append-only record of every transition and
// administrative action. Besides compliance it doubles as the source for
// historical-status reporting: a submission's current status column is
// overwritten on every transition, so "ever reached X" queries scan
// audit actions instead.
type AuditLog struct {
	ID           string    `db:"id"`
	SubmissionID *string   `db:"submission_id"`
	Action       string    `db:"action"`
	UserID       string    `db:"user_id"`
	Details      string    `db:"details"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	ActionVerificationFormSubmitted = "VERIFICATION_FORM_SUBMITTED"
	ActionSignatureUploaded         = "SIGNATURE_UPLOADED"
	ActionStampUploaded             = "STAMP_UPLOADED"
	ActionTemplateUploaded          = "TEMPLATE_UPLOADED"
)

// StatusChangeAction is the audit tag for a transition into status.
func StatusChangeAction(status SubmissionStatus) string {
	return fmt.Sprintf("STATUS_CHANGED_TO_%s", status)
}

// DownloadAction is the audit tag for a personnel letter download.
func DownloadAction(letter LetterType) string {
	return fmt.Sprintf("DOWNLOAD_%s_LETTER", strings.ToUpper(string(letter)))
}
