package workflow

import (
	"context"
	"errors"
	"fmt"

	"naspac/internal/notify"
	"naspac/internal/store"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// minServiceYear guards against typo years; anything before this is
// rejected outright.
const minServiceYear = 1900

// OnboardingInput is a personnel's initial submission: identity fields
// plus the two uploaded letters.
type OnboardingInput struct {
	FullName           string
	NssNumber          string
	Gender             string
	Email              string
	PhoneNumber        string
	PlaceOfResidence   string
	UniversityAttended string
	RegionOfSchool     string
	ProgramStudied     string
	DivisionPostedTo   string
	YearOfNss          int

	PostingLetter     []byte
	AppointmentLetter []byte
}

func (in *OnboardingInput) validate(now int) error {
	switch {
	case in.FullName == "" || in.NssNumber == "" || in.Email == "" ||
		in.PhoneNumber == "" || in.DivisionPostedTo == "":
		return fmt.Errorf("missing required submission fields: %w", types.ErrPrecondition)
	case in.YearOfNss < minServiceYear || in.YearOfNss > now:
		return fmt.Errorf("year of service %d out of range: %w", in.YearOfNss, types.ErrPrecondition)
	case len(in.PostingLetter) == 0 || len(in.AppointmentLetter) == 0:
		return fmt.Errorf("posting and appointment letters are required: %w", types.ErrPrecondition)
	}
	return nil
}

// SubmitOnboarding creates a PENDING submission for the calling
// personnel. The caller's registered NSS number must match the
// submission; one live submission is allowed per (user, NSS number).
func (e *Engine) SubmitOnboarding(ctx context.Context, userID string, input OnboardingInput) (*types.SubmissionView, error) {
	user, err := e.personnel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.NssNumber == nil || *user.NssNumber != input.NssNumber {
		return nil, fmt.Errorf("NSS number does not match the registered personnel record: %w", types.ErrForbidden)
	}
	if err := input.validate(e.now().Year()); err != nil {
		return nil, err
	}

	if _, err := e.store.Submissions().ByUser(ctx, userID); err == nil {
		return nil, fmt.Errorf("submission already exists for this user and NSS number: %w", types.ErrConflict)
	} else if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	// Blob uploads happen before the transaction; an orphaned upload on a
	// failed insert is harmless and unreferenced.
	postingURL, err := e.blobs.Upload(ctx,
		e.blobKey("posting-letters", userID, "pdf"), input.PostingLetter, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: store posting letter: %w", types.ErrExternalService, err)
	}
	appointmentURL, err := e.blobs.Upload(ctx,
		e.blobKey("appointment-letters", userID, "pdf"), input.AppointmentLetter, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: store appointment letter: %w", types.ErrExternalService, err)
	}

	submission := &types.Submission{
		UserID:               userID,
		FullName:             input.FullName,
		NssNumber:            input.NssNumber,
		Gender:               input.Gender,
		Email:                input.Email,
		PhoneNumber:          input.PhoneNumber,
		PlaceOfResidence:     optional(input.PlaceOfResidence),
		UniversityAttended:   optional(input.UniversityAttended),
		RegionOfSchool:       optional(input.RegionOfSchool),
		ProgramStudied:       optional(input.ProgramStudied),
		DivisionPostedTo:     input.DivisionPostedTo,
		YearOfNss:            input.YearOfNss,
		Status:               types.StatusPending,
		PostingLetterURL:     &postingURL,
		AppointmentLetterURL: &appointmentURL,
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		if err := tx.Submissions().Create(ctx, submission); err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			SubmissionID: &submission.ID,
			Action:       types.StatusChangeAction(types.StatusPending),
			UserID:       userID,
			Details:      fmt.Sprintf("Onboarding submission created for %s", submission.FullName),
		}); err != nil {
			return err
		}

		if err := tx.Notifications().Create(ctx, &types.Notification{
			Title:       "Submission Received",
			Description: fmt.Sprintf("Your onboarding submission %s has been received", submission.ID),
			IconType:    types.IconUser,
			Role:        types.RolePersonnel,
			UserID:      &submission.UserID,
		}); err != nil {
			return err
		}
		for _, audience := range []types.Role{types.RoleAdmin, types.RoleStaff} {
			if err := tx.Notifications().Create(ctx, &types.Notification{
				Title:       "New Onboarding Submission",
				Description: fmt.Sprintf("%s (%s) submitted onboarding documents", submission.FullName, submission.NssNumber),
				IconType:    types.IconBell,
				Role:        audience,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.dispatcher.Enqueue(notify.SubmissionConfirmationEmail(submission.Email, submission.FullName))

	e.logger.WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"user_id":       userID,
		"year_of_nss":   submission.YearOfNss,
	}).Info("onboarding submission created")

	return submission.View(), nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
