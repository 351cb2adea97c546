package workflow

import (
	"context"
	"testing"

	"naspac/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadEndorsementImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the image and updates the user record", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedUser(types.User{Role: types.RoleStaff, Name: "Kwame Boateng"})

		publicURL, err := te.engine.UploadEndorsementImage(ctx, staffID, ImageSignature, []byte("png-bytes"), "image/png")
		require.NoError(t, err)

		key, err := te.blobs.KeyFromURL(publicURL)
		require.NoError(t, err)
		stored, err := te.blobs.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), stored)

		user, err := te.store.Users().ByID(ctx, staffID)
		require.NoError(t, err)
		require.NotNil(t, user.SignaturePath)
		assert.Equal(t, key, *user.SignaturePath)
		assert.Nil(t, user.StampPath)

		assert.Contains(t, te.store.auditActions(), types.ActionSignatureUploaded)
	})

	t.Run("stamp upload sets the stamp path", func(t *testing.T) {
		te := newTestEngine()
		adminID := te.seedUser(types.User{Role: types.RoleAdmin})

		_, err := te.engine.UploadEndorsementImage(ctx, adminID, ImageStamp, []byte("jpg-bytes"), "image/jpeg")
		require.NoError(t, err)

		user, err := te.store.Users().ByID(ctx, adminID)
		require.NoError(t, err)
		assert.NotNil(t, user.StampPath)
		assert.Contains(t, te.store.auditActions(), types.ActionStampUploaded)
	})

	t.Run("rejects non image content", func(t *testing.T) {
		te := newTestEngine()
		adminID := te.seedUser(types.User{Role: types.RoleAdmin})

		_, err := te.engine.UploadEndorsementImage(ctx, adminID, ImageSignature, []byte("%PDF"), "application/pdf")
		assert.ErrorIs(t, err, types.ErrPrecondition)
	})

	t.Run("personnel cannot upload endorsement images", func(t *testing.T) {
		te := newTestEngine()
		ownerID := te.seedUser(types.User{Role: types.RolePersonnel})

		_, err := te.engine.UploadEndorsementImage(ctx, ownerID, ImageSignature, []byte("png"), "image/png")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})
}

func TestUploadTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin uploads a template", func(t *testing.T) {
		te := newTestEngine()
		adminID := te.seedUser(types.User{Role: types.RoleAdmin, Name: "Akosua Mensah"})

		template, err := te.engine.UploadTemplate(ctx, adminID, "Job Confirmation 2024", "job_confirmation", []byte("%PDF template"), "application/pdf")
		require.NoError(t, err)
		assert.NotEmpty(t, template.ID)
		assert.Equal(t, adminID, template.CreatedBy)

		assert.Contains(t, te.store.auditActions(), types.ActionTemplateUploaded)
		require.Len(t, te.store.templates, 1)
	})

	t.Run("staff cannot upload templates", func(t *testing.T) {
		te := newTestEngine()
		staffID := te.seedUser(types.User{Role: types.RoleStaff})

		_, err := te.engine.UploadTemplate(ctx, staffID, "T", "job_confirmation", []byte("%PDF"), "application/pdf")
		assert.ErrorIs(t, err, types.ErrForbidden)
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		te := newTestEngine()
		adminID := te.seedUser(types.User{Role: types.RoleAdmin})

		_, err := te.engine.UploadTemplate(ctx, adminID, "T", "job_confirmation", []byte("gif"), "image/gif")
		assert.ErrorIs(t, err, types.ErrPrecondition)
	})
}
