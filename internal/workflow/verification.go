package workflow

import (
	"context"
	"fmt"

	"naspac/internal/notify"
	"naspac/internal/store"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// SubmitVerificationForm attaches the signed verification form to the
// caller's ENDORSED submission. Exactly one form is accepted; a second
// upload conflicts.
func (e *Engine) SubmitVerificationForm(ctx context.Context, userID string, form []byte, contentType string) (*types.SubmissionView, error) {
	user, err := e.personnel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if contentType != "application/pdf" {
		return nil, fmt.Errorf("verification form must be a PDF, got %s: %w", contentType, types.ErrPrecondition)
	}
	if len(form) == 0 {
		return nil, fmt.Errorf("verification form is empty: %w", types.ErrPrecondition)
	}

	// Cheap pre-checks before paying for the upload; re-validated under
	// the row lock inside the transaction.
	submission, err := e.store.Submissions().ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := verificationAllowed(submission); err != nil {
		return nil, err
	}

	formURL, err := e.blobs.Upload(ctx,
		e.blobKey("verification-forms", userID, "pdf"), form, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: store verification form: %w", types.ErrExternalService, err)
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	var staff []*types.User
	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		submission, err = tx.Submissions().ByIDForUpdate(ctx, submission.ID)
		if err != nil {
			return err
		}
		if err := verificationAllowed(submission); err != nil {
			return err
		}

		submission.VerificationFormURL = &formURL
		submission.UpdatedAt = e.now()
		if err := tx.Submissions().Update(ctx, submission); err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			SubmissionID: &submission.ID,
			Action:       types.ActionVerificationFormSubmitted,
			UserID:       userID,
			Details:      fmt.Sprintf("Verification form submitted for %s", submission.FullName),
		}); err != nil {
			return err
		}

		if err := tx.Notifications().Create(ctx, &types.Notification{
			Title:       "Verification Form Received",
			Description: fmt.Sprintf("Your verification form for submission %s has been received", submission.ID),
			IconType:    types.IconUser,
			Role:        types.RolePersonnel,
			UserID:      &submission.UserID,
		}); err != nil {
			return err
		}
		for _, audience := range []types.Role{types.RoleAdmin, types.RoleStaff} {
			if err := tx.Notifications().Create(ctx, &types.Notification{
				Title:       "Verification Form Submitted",
				Description: fmt.Sprintf("%s (%s) submitted a verification form", submission.FullName, submission.NssNumber),
				IconType:    types.IconBell,
				Role:        audience,
			}); err != nil {
				return err
			}
		}

		staff, err = tx.Users().StaffContacts(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, member := range staff {
		e.dispatcher.Enqueue(notify.VerificationFormEmail(
			member.Email, member.Name, submission.FullName, submission.NssNumber, submission.ID))
	}

	e.logger.WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"user_id":       user.ID,
	}).Info("verification form submitted")

	return submission.View(), nil
}

func verificationAllowed(submission *types.Submission) error {
	if submission.VerificationFormURL != nil {
		return fmt.Errorf("verification form already submitted: %w", types.ErrConflict)
	}
	if submission.Status != types.StatusEndorsed {
		return fmt.Errorf("verification form requires an ENDORSED submission, status is %s: %w",
			submission.Status, types.ErrPrecondition)
	}
	return nil
}
