package workflow

import (
	"context"
	"fmt"

	"naspac/internal/store"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// ImageKind selects which endorsement image an upload replaces.
type ImageKind string

const (
	ImageSignature ImageKind = "signature"
	ImageStamp     ImageKind = "stamp"
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
}

// UploadEndorsementImage stores an ADMIN or STAFF member's signature or
// stamp image and points their user record at it. Subsequent signings
// pick up the new image; already-signed documents are untouched.
func (e *Engine) UploadEndorsementImage(ctx context.Context, actorID string, kind ImageKind, image []byte, contentType string) (string, error) {
	actor, err := e.reviewer(ctx, actorID)
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%s must be a PNG or JPEG image, got %s: %w", kind, contentType, types.ErrPrecondition)
	}
	if len(image) == 0 {
		return "", fmt.Errorf("%s image is empty: %w", kind, types.ErrPrecondition)
	}

	key := e.blobKey(string(kind)+"s", actorID, ext)
	publicURL, err := e.blobs.Upload(ctx, key, image, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: store %s image: %w", types.ErrExternalService, kind, err)
	}

	action := types.ActionSignatureUploaded
	if kind == ImageStamp {
		action = types.ActionStampUploaded
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		// User rows reference images by storage key; public URLs are
		// derived on the way out.
		if kind == ImageSignature {
			err = tx.Users().SetSignaturePath(ctx, actorID, key)
		} else {
			err = tx.Users().SetStampPath(ctx, actorID, key)
		}
		if err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			Action:  action,
			UserID:  actorID,
			Details: fmt.Sprintf("%s uploaded a new %s image", actor.Name, kind),
		}); err != nil {
			return err
		}

		return tx.Notifications().Create(ctx, &types.Notification{
			Title:       fmt.Sprintf("%s Updated", titleFor(kind)),
			Description: fmt.Sprintf("%s uploaded a new %s image", actor.Name, kind),
			IconType:    types.IconSetting,
			Role:        reviewerAudience(actor.Role),
		})
	})
	if err != nil {
		return "", err
	}

	e.logger.WithFields(logrus.Fields{
		"user_id": actorID,
		"kind":    kind,
	}).Info("endorsement image uploaded")

	return publicURL, nil
}

func titleFor(kind ImageKind) string {
	if kind == ImageStamp {
		return "Stamp"
	}
	return "Signature"
}

var templateExtensions = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

// UploadTemplate stores a letter template. ADMIN only.
func (e *Engine) UploadTemplate(ctx context.Context, actorID, name, templateType string, data []byte, contentType string) (*types.Template, error) {
	actor, err := e.store.Users().ByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != types.RoleAdmin {
		return nil, fmt.Errorf("only ADMIN can upload templates: %w", types.ErrForbidden)
	}
	ext, ok := templateExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("template must be a PDF or DOCX, got %s: %w", contentType, types.ErrPrecondition)
	}
	if name == "" || len(data) == 0 {
		return nil, fmt.Errorf("template name and content are required: %w", types.ErrPrecondition)
	}

	key := e.blobKey("templates", actorID, ext)
	fileURL, err := e.blobs.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: store template: %w", types.ErrExternalService, err)
	}

	template := &types.Template{
		Name:      name,
		Type:      templateType,
		FileURL:   fileURL,
		CreatedBy: actorID,
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		if err := tx.Templates().Create(ctx, template); err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			Action:  types.ActionTemplateUploaded,
			UserID:  actorID,
			Details: fmt.Sprintf("Template %q uploaded", name),
		}); err != nil {
			return err
		}

		return tx.Notifications().Create(ctx, &types.Notification{
			Title:       "Template Uploaded",
			Description: fmt.Sprintf("%s uploaded template %q", actor.Name, name),
			IconType:    types.IconSetting,
			Role:        types.RoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"template_id": template.ID,
		"user_id":     actorID,
	}).Info("template uploaded")

	return template, nil
}
