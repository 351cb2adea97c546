package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatusTransitions(t *testing.T) {
	allowed := map[SubmissionStatus][]SubmissionStatus{
		StatusPending:            {StatusPendingEndorsement, StatusRejected},
		StatusPendingEndorsement: {StatusEndorsed, StatusRejected},
		StatusEndorsed:           {StatusValidated, StatusRejected},
		StatusValidated:          {StatusCompleted, StatusRejected},
		StatusRejected:           {StatusPending},
		StatusCompleted:          nil,
	}

	all := []SubmissionStatus{
		StatusPending, StatusPendingEndorsement, StatusEndorsed,
		StatusValidated, StatusCompleted, StatusRejected,
	}

	for from, targets := range allowed {
		legal := make(map[SubmissionStatus]bool, len(targets))
		for _, target := range targets {
			legal[target] = true
		}
		for _, to := range all {
			assert.Equal(t, legal[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestSubmissionStatusValid(t *testing.T) {
	assert.True(t, StatusPendingEndorsement.Valid())
	assert.False(t, SubmissionStatus("ARCHIVED").Valid())
	assert.False(t, SubmissionStatus("").Valid())
}

func TestStatusChangeAction(t *testing.T) {
	assert.Equal(t, "STATUS_CHANGED_TO_ENDORSED", StatusChangeAction(StatusEndorsed))
	assert.Equal(t, "DOWNLOAD_JOB_CONFIRMATION_LETTER", DownloadAction(LetterJobConfirmation))
	assert.Equal(t, "DOWNLOAD_APPOINTMENT_LETTER", DownloadAction(LetterAppointment))
}

func TestRoleIsReviewer(t *testing.T) {
	assert.True(t, RoleAdmin.IsReviewer())
	assert.True(t, RoleStaff.IsReviewer())
	assert.False(t, RolePersonnel.IsReviewer())
	assert.False(t, RoleSupervisor.IsReviewer())
}
