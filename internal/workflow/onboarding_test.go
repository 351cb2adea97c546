package workflow

import (
	"context"
	"testing"

	"naspac/internal/utils"
	"naspac/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOnboardingInput() OnboardingInput {
	return OnboardingInput{
		FullName:          "Ama Serwaa",
		NssNumber:         "NSSGHA0012345678",
		Gender:            "F",
		Email:             "ama.serwaa@example.com",
		PhoneNumber:       "0244000000",
		DivisionPostedTo:  "Cocoa Health and Extension",
		YearOfNss:         testNow.Year(),
		PostingLetter:     []byte("%PDF posting"),
		AppointmentLetter: []byte("%PDF appointment"),
	}
}

func TestSubmitOnboarding(t *testing.T) {
	ctx := context.Background()

	newPersonnel := func(te *testEngine) string {
		return te.seedUser(types.User{
			Role:      types.RolePersonnel,
			NssNumber: utils.StringPtr("NSSGHA0012345678"),
			Email:     "ama.serwaa@example.com",
		})
	}

	t.Run("creates a pending submission with letters stored", func(t *testing.T) {
		te := newTestEngine()
		userID := newPersonnel(te)

		view, err := te.engine.SubmitOnboarding(ctx, userID, validOnboardingInput())
		require.NoError(t, err)
		assert.Equal(t, types.StatusPending, view.Status)
		require.NotNil(t, view.PostingLetterURL)
		require.NotNil(t, view.AppointmentLetterURL)

		postingKey, err := te.blobs.KeyFromURL(*view.PostingLetterURL)
		require.NoError(t, err)
		posting, err := te.blobs.Get(ctx, postingKey)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF posting"), posting)

		assert.Contains(t, te.store.auditActions(), "STATUS_CHANGED_TO_PENDING")

		emails := te.dispatcher.sent()
		require.Len(t, emails, 1)
		assert.Equal(t, "ama.serwaa@example.com", emails[0].To)

		// Owner plus both reviewer audiences.
		assert.Len(t, te.store.notifications, 3)
	})

	t.Run("duplicate submission conflicts", func(t *testing.T) {
		te := newTestEngine()
		userID := newPersonnel(te)

		_, err := te.engine.SubmitOnboarding(ctx, userID, validOnboardingInput())
		require.NoError(t, err)

		_, err = te.engine.SubmitOnboarding(ctx, userID, validOnboardingInput())
		assert.ErrorIs(t, err, types.ErrConflict)
	})

	t.Run("NSS number must match the registered record", func(t *testing.T) {
		te := newTestEngine()
		userID := te.seedUser(types.User{
			Role:      types.RolePersonnel,
			NssNumber: utils.StringPtr("NSSGHA9999999999"),
		})

		_, err := te.engine.SubmitOnboarding(ctx, userID, validOnboardingInput())
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("reviewers cannot submit onboarding", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedReviewer(types.RoleStaff)

		_, err := te.engine.SubmitOnboarding(ctx, staffID, validOnboardingInput())
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("service year bounds", func(t *testing.T) {
		te := newTestEngine()
		userID := newPersonnel(te)

		for _, year := range []int{1899, testNow.Year() + 1} {
			input := validOnboardingInput()
			input.YearOfNss = year
			_, err := te.engine.SubmitOnboarding(ctx, userID, input)
			assert.ErrorIs(t, err, types.ErrPrecondition, "year %d", year)
		}
	})

	t.Run("missing letters are rejected", func(t *testing.T) {
		te := newTestEngine()
		userID := newPersonnel(te)

		input := validOnboardingInput()
		input.AppointmentLetter = nil
		_, err := te.engine.SubmitOnboarding(ctx, userID, input)
		assert.ErrorIs(t, err, types.ErrPrecondition)
	})
}
