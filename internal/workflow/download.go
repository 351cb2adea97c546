package workflow

import (
	"context"
	"fmt"
	"path"

	"naspac/internal/store"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// downloadableStatuses lists, per letter type, the submission statuses
// from which a personnel may download it. The endorsed letter is only
// available while the submission sits at ENDORSED; the signed
// appointment letter and the job confirmation letter open up once
// review passes VALIDATED.
var downloadableStatuses = map[types.LetterType][]types.SubmissionStatus{
	types.LetterAppointment: {
		types.StatusValidated, types.StatusCompleted,
	},
	types.LetterEndorsed: {
		types.StatusEndorsed,
	},
	types.LetterJobConfirmation: {
		types.StatusValidated, types.StatusCompleted,
	},
}

// Download is the letter payload handed back to the HTTP layer.
type Download struct {
	FileName string
	Data     []byte
}

// DownloadLetter returns the requested letter for the caller's own
// submission. Downloading the job confirmation letter while VALIDATED
// completes the onboarding: the COMPLETED transition, its audit entry
// and the download audit entry commit atomically with the read, so a
// concurrent second download observes COMPLETED and does not re-fire the
// transition.
func (e *Engine) DownloadLetter(ctx context.Context, userID string, letter types.LetterType) (*Download, error) {
	user, err := e.personnel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !letter.Valid() {
		return nil, fmt.Errorf("unknown letter type %q: %w", letter, types.ErrPrecondition)
	}

	current, err := e.store.Submissions().ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	var (
		download  *Download
		completed bool
	)
	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		submission, err := tx.Submissions().ByIDForUpdate(ctx, current.ID)
		if err != nil {
			return err
		}
		if !statusIn(submission.Status, downloadableStatuses[letter]) {
			return fmt.Errorf("cannot download %s letter while submission is %s: %w",
				letter, submission.Status, types.ErrPrecondition)
		}

		fileURL, err := e.letterURL(ctx, tx, submission, letter)
		if err != nil {
			return err
		}

		key, err := e.blobs.KeyFromURL(fileURL)
		if err != nil {
			return fmt.Errorf("resolve %s letter location: %w", letter, err)
		}
		data, err := e.blobs.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("load %s letter: %w", letter, err)
		}

		if letter == types.LetterJobConfirmation && submission.Status == types.StatusValidated {
			submission.Status = types.StatusCompleted
			submission.UpdatedAt = e.now()
			if err := tx.Submissions().Update(ctx, submission); err != nil {
				return err
			}
			if err := tx.Audits().Append(ctx, &types.AuditLog{
				SubmissionID: &submission.ID,
				Action:       types.StatusChangeAction(types.StatusCompleted),
				UserID:       userID,
				Details:      "Job confirmation letter downloaded, onboarding completed",
			}); err != nil {
				return err
			}
			if err := tx.Notifications().Create(ctx, &types.Notification{
				Title:       "Onboarding Completed",
				Description: fmt.Sprintf("Your submission %s is now %s", submission.ID, types.StatusCompleted),
				IconType:    types.IconUser,
				Role:        types.RolePersonnel,
				UserID:      &submission.UserID,
			}); err != nil {
				return err
			}
			completed = true
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			SubmissionID: &submission.ID,
			Action:       types.DownloadAction(letter),
			UserID:       userID,
			Details:      fmt.Sprintf("%s letter downloaded by %s", letter, submission.FullName),
		}); err != nil {
			return err
		}

		download = &Download{FileName: path.Base(key), Data: data}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"submission_id": current.ID,
		"user_id":       user.ID,
		"letter":        letter,
		"completed":     completed,
	}).Info("letter downloaded")

	return download, nil
}

// letterURL resolves which stored artifact backs the requested letter.
// The endorsed letter always comes from the latest Document row, not the
// submission's mutable URL columns.
func (e *Engine) letterURL(ctx context.Context, tx store.Datastore, submission *types.Submission, letter types.LetterType) (string, error) {
	var fileURL *string
	switch letter {
	case types.LetterAppointment:
		fileURL = submission.AppointmentLetterURL
	case types.LetterJobConfirmation:
		fileURL = submission.JobConfirmationLetterURL
	case types.LetterEndorsed:
		document, err := tx.Documents().LatestBySubmission(ctx, submission.ID)
		if err != nil {
			return "", err
		}
		fileURL = &document.SignedURL
	}
	if fileURL == nil || *fileURL == "" {
		return "", fmt.Errorf("no %s letter on submission %s: %w", letter, submission.ID, types.ErrNotFound)
	}
	return *fileURL, nil
}

func statusIn(status types.SubmissionStatus, allowed []types.SubmissionStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
