package workflow

import (
	"context"
	"fmt"

	"naspac/internal/notify"
	"naspac/internal/pdf"
	"naspac/internal/store"
	"naspac/internal/utils"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// UpdateSubmissionStatus moves a submission to target. The caller must
// be ADMIN or STAFF. The transition, its audit entry, its notifications
// and (for VALIDATED) the generated job confirmation letter commit
// atomically; the row is locked for the duration so concurrent reviewers
// serialize and the loser fails the transition check.
func (e *Engine) UpdateSubmissionStatus(ctx context.Context, actorID, submissionID string, target types.SubmissionStatus, comment string) (*types.SubmissionView, error) {
	actor, err := e.reviewer(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, fmt.Errorf("unknown submission status %q: %w", target, types.ErrPrecondition)
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	var updated *types.Submission
	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		submission, err := tx.Submissions().ByIDForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		if !submission.Status.CanTransitionTo(target) {
			return &types.InvalidTransitionError{From: submission.Status, To: target}
		}

		details := comment
		if details == "" {
			details = fmt.Sprintf("Status changed to %s", target)
		}

		if target == types.StatusValidated && submission.JobConfirmationLetterURL == nil {
			letterURL, err := e.generateJobConfirmationLetter(ctx, tx, actor, submission)
			if err != nil {
				return err
			}
			submission.JobConfirmationLetterURL = &letterURL
			details += " and job confirmation letter generated"
		}

		submission.Status = target
		submission.UpdatedAt = e.now()
		if err := tx.Submissions().Update(ctx, submission); err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			SubmissionID: &submission.ID,
			Action:       types.StatusChangeAction(target),
			UserID:       actor.ID,
			Details:      details,
		}); err != nil {
			return err
		}

		if err := e.notifyStatusChange(ctx, tx, actor, submission, target); err != nil {
			return err
		}

		updated = submission
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit side effect: rejection email is best-effort and never
	// part of the transaction.
	if target == types.StatusRejected {
		reason := comment
		if reason == "" {
			reason = "Your submission did not pass review."
		}
		e.dispatcher.Enqueue(notify.RejectionEmail(updated.Email, updated.FullName, updated.ID, reason))
	}

	e.logger.WithFields(logrus.Fields{
		"submission_id": updated.ID,
		"status":        target,
		"actor_id":      actor.ID,
	}).Info("submission status updated")

	return updated.View(), nil
}

// personnelStatusTitles are the milestones the submission owner is told
// about in-app. A rejection reaches the owner by email only.
var personnelStatusTitles = map[types.SubmissionStatus]string{
	types.StatusEndorsed:  "Submission Endorsed",
	types.StatusValidated: "Submission Validated",
	types.StatusCompleted: "Onboarding Completed",
}

func (e *Engine) notifyStatusChange(ctx context.Context, tx store.Datastore, actor *types.User, submission *types.Submission, target types.SubmissionStatus) error {
	if title, ok := personnelStatusTitles[target]; ok {
		err := tx.Notifications().Create(ctx, &types.Notification{
			Title:       title,
			Description: fmt.Sprintf("Your submission %s is now %s", submission.ID, target),
			IconType:    types.IconUser,
			Role:        types.RolePersonnel,
			UserID:      &submission.UserID,
		})
		if err != nil {
			return err
		}
	}

	return tx.Notifications().Create(ctx, &types.Notification{
		Title:       "Submission Status Changed",
		Description: fmt.Sprintf("Submission %s for %s moved to %s", submission.ID, submission.FullName, target),
		IconType:    types.IconBell,
		Role:        reviewerAudience(actor.Role),
	})
}

// generateJobConfirmationLetter renders and stores the letter for a
// submission entering VALIDATED. The acting reviewer's signature and the
// owner's department are hard preconditions.
func (e *Engine) generateJobConfirmationLetter(ctx context.Context, tx store.Datastore, actor *types.User, submission *types.Submission) (string, error) {
	if actor.SignaturePath == nil {
		return "", fmt.Errorf("no signature found for user %s: %w", actor.ID, types.ErrPrecondition)
	}
	signature, err := e.blobs.Get(ctx, *actor.SignaturePath)
	if err != nil {
		return "", fmt.Errorf("load signature for user %s: %w", actor.ID, err)
	}

	owner, err := tx.Users().ByID(ctx, submission.UserID)
	if err != nil {
		return "", err
	}
	if owner.DepartmentID == nil {
		return "", fmt.Errorf("personnel %s has no department assigned: %w", owner.ID, types.ErrPrecondition)
	}
	department, err := tx.Departments().ByID(ctx, *owner.DepartmentID)
	if err != nil {
		return "", err
	}

	renderedAt := e.now()
	letter, err := e.letters.Render(pdf.LetterData{
		FullName:        submission.FullName,
		PhoneNumber:     submission.PhoneNumber,
		Division:        submission.DivisionPostedTo,
		Department:      department.Name,
		ReferenceNumber: fmt.Sprintf("NSS/%d/%s", submission.YearOfNss, submission.NssNumber),
		Date:            renderedAt,
		Year:            submission.YearOfNss,
		Signature:       signature,
		Letterhead:      e.letterhead,
	})
	if err != nil {
		if isValidationError(err) {
			return "", err
		}
		return "", fmt.Errorf("%w: render job confirmation letter: %w", types.ErrExternalService, err)
	}

	key := fmt.Sprintf("job-confirmation-letters/%s-%d-%s.pdf",
		submission.ID, renderedAt.UnixMilli(), utils.NanoIDSize(8))
	letterURL, err := e.blobs.Upload(ctx, key, letter, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("%w: store job confirmation letter: %w", types.ErrExternalService, err)
	}
	return letterURL, nil
}
