package server

import (
	"context"

	"naspac/internal/workflow"
	"naspac/pkg/types"
)

// Engine is the workflow surface the HTTP layer drives.
type Engine interface {
	SubmitOnboarding(ctx context.Context, userID string, input workflow.OnboardingInput) (*types.SubmissionView, error)
	SubmitVerificationForm(ctx context.Context, userID string, form []byte, contentType string) (*types.SubmissionView, error)
	UpdateSubmissionStatus(ctx context.Context, actorID, submissionID string, target types.SubmissionStatus, comment string) (*types.SubmissionView, error)
	SignDocument(ctx context.Context, adminID, submissionID string, docType types.DocumentType) (*workflow.SignResult, error)
	DownloadLetter(ctx context.Context, userID string, letter types.LetterType) (*workflow.Download, error)
	StatusCounts(ctx context.Context, actorID string, statuses []types.SubmissionStatus) (map[string]int64, error)
	Notifications(ctx context.Context, actorID string, skip, take uint64) ([]*types.Notification, error)
	UploadEndorsementImage(ctx context.Context, actorID string, kind workflow.ImageKind, image []byte, contentType string) (string, error)
	UploadTemplate(ctx context.Context, actorID, name, templateType string, data []byte, contentType string) (*types.Template, error)
}
