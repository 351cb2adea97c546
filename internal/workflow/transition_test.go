package workflow

import (
	"context"
	"errors"
	"testing"

	"naspac/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSubmissionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("staff advances pending submission", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel, Email: "owner@example.com"})
		submission := te.seedSubmission(ownerID, types.StatusPending)

		view, err := te.engine.UpdateSubmissionStatus(ctx, staffID, submission.ID, types.StatusPendingEndorsement, "")
		require.NoError(t, err)
		assert.Equal(t, types.StatusPendingEndorsement, view.Status)

		assert.Contains(t, te.store.auditActions(), "STATUS_CHANGED_TO_PENDING_ENDORSEMENT")
		assert.Empty(t, te.dispatcher.sent())
	})

	t.Run("personnel cannot change status", func(t *testing.T) {
		te := newTestEngine()
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusPending)

		_, err := te.engine.UpdateSubmissionStatus(ctx, ownerID, submission.ID, types.StatusPendingEndorsement, "")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("illegal transition is rejected with both sides named", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusPending)

		_, err := te.engine.UpdateSubmissionStatus(ctx, staffID, submission.ID, types.StatusCompleted, "")
		require.Error(t, err)
		assert.True(t, types.IsInvalidTransition(err))
		assert.EqualError(t, err, "invalid status transition from PENDING to COMPLETED")

		got, gerr := te.store.Submissions().ByID(ctx, submission.ID)
		require.NoError(t, gerr)
		assert.Equal(t, types.StatusPending, got.Status)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusCompleted)

		for _, target := range []types.SubmissionStatus{
			types.StatusPending, types.StatusEndorsed, types.StatusRejected,
		} {
			_, err := te.engine.UpdateSubmissionStatus(ctx, staffID, submission.ID, target, "")
			assert.True(t, types.IsInvalidTransition(err), "expected invalid transition to %s", target)
		}
	})

	t.Run("rejection enqueues the email after commit", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusPending)

		_, err := te.engine.UpdateSubmissionStatus(ctx, staffID, submission.ID, types.StatusRejected, "posting letter unreadable")
		require.NoError(t, err)

		emails := te.dispatcher.sent()
		require.Len(t, emails, 1)
		assert.Equal(t, submission.Email, emails[0].To)
		assert.Contains(t, emails[0].HTML, "posting letter unreadable")

		// The owner hears about a rejection by email only; the sole
		// notification row is the reviewer-audience one.
		require.Len(t, te.store.notifications, 1)
		assert.Nil(t, te.store.notifications[0].UserID)
		assert.Equal(t, types.RoleStaff, te.store.notifications[0].Role)
	})

	t.Run("rejected submission can be resubmitted to pending", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusRejected)

		view, err := te.engine.UpdateSubmissionStatus(ctx, staffID, submission.ID, types.StatusPending, "")
		require.NoError(t, err)
		assert.Equal(t, types.StatusPending, view.Status)
	})

	t.Run("unknown submission", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)

		_, err := te.engine.UpdateSubmissionStatus(ctx, staffID, "missing", types.StatusPendingEndorsement, "")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestUpdateSubmissionStatusValidated(t *testing.T) {
	ctx := context.Background()

	setup := func() (*testEngine, string, *types.Submission) {
		te := newTestEngine()
		adminID := te.seedReviewer(types.RoleAdmin)

		department := &types.Department{Name: "Human Resource"}
		require.NoError(t, te.store.Departments().Create(ctx, department))
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel, DepartmentID: &department.ID})
		submission := te.seedSubmission(ownerID, types.StatusEndorsed)
		return te, adminID, submission
	}

	t.Run("generates the job confirmation letter", func(t *testing.T) {
		te, adminID, submission := setup()

		view, err := te.engine.UpdateSubmissionStatus(ctx, adminID, submission.ID, types.StatusValidated, "")
		require.NoError(t, err)
		assert.Equal(t, types.StatusValidated, view.Status)
		require.NotNil(t, view.JobConfirmationLetterURL)

		key, err := te.blobs.KeyFromURL(*view.JobConfirmationLetterURL)
		require.NoError(t, err)
		letter, err := te.blobs.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("letter:"+submission.FullName), letter)

		assert.Contains(t, te.store.auditActions(), "STATUS_CHANGED_TO_VALIDATED")
	})

	t.Run("renderer failure rolls the transition back", func(t *testing.T) {
		te, adminID, submission := setup()
		te.renderer.err = errors.New("font table corrupt")

		_, err := te.engine.UpdateSubmissionStatus(ctx, adminID, submission.ID, types.StatusValidated, "")
		assert.ErrorIs(t, err, types.ErrExternalService)

		got, gerr := te.store.Submissions().ByID(ctx, submission.ID)
		require.NoError(t, gerr)
		assert.Equal(t, types.StatusEndorsed, got.Status)
		assert.Nil(t, got.JobConfirmationLetterURL)
		assert.NotContains(t, te.store.auditActions(), "STATUS_CHANGED_TO_VALIDATED")
	})

	t.Run("reviewer without signature cannot validate", func(t *testing.T) {
		te, _, submission := setup()
		bareID := te.seedUser(types.User{Role: types.RoleStaff, Email: "bare@cocobod.gh"})

		_, err := te.engine.UpdateSubmissionStatus(ctx, bareID, submission.ID, types.StatusValidated, "")
		assert.ErrorIs(t, err, types.ErrPrecondition)
	})

	t.Run("personnel without department cannot be validated", func(t *testing.T) {
		te := newTestEngine()
		adminID := te.seedReviewer(types.RoleAdmin)
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})
		submission := te.seedSubmission(ownerID, types.StatusEndorsed)

		_, err := te.engine.UpdateSubmissionStatus(ctx, adminID, submission.ID, types.StatusValidated, "")
		assert.ErrorIs(t, err, types.ErrPrecondition)
	})
}
