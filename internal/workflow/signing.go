package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"naspac/internal/notify"
	"naspac/internal/pdf"
	"naspac/internal/store"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// maxRemoteDocumentSize caps legacy remote fetches at 25 MiB.
const maxRemoteDocumentSize = 25 << 20

// SignResult describes a completed signing operation.
type SignResult struct {
	DocumentID string `json:"documentId"`
	SignedURL  string `json:"signedUrl"`
	Hash       string `json:"hash"`
}

// SignDocument endorses a submission's letter: stamps the admin's
// signature, stamp and the submission date onto the source PDF, stores
// the result under a signed- key, records an immutable Document row with
// the SHA-256 of the signed bytes and moves the submission to ENDORSED —
// all in one transaction. Only ADMIN may sign, and only from
// PENDING_ENDORSEMENT.
func (e *Engine) SignDocument(ctx context.Context, adminID, submissionID string, docType types.DocumentType) (*SignResult, error) {
	admin, err := e.store.Users().ByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != types.RoleAdmin {
		return nil, fmt.Errorf("only ADMIN can sign documents: %w", types.ErrForbidden)
	}
	if !docType.Valid() {
		return nil, fmt.Errorf("unknown document type %q: %w", docType, types.ErrPrecondition)
	}
	if admin.SignaturePath == nil || admin.StampPath == nil {
		return nil, fmt.Errorf("admin has no signature or stamp on file: %w", types.ErrPrecondition)
	}

	signature, err := e.blobs.Get(ctx, *admin.SignaturePath)
	if err != nil {
		return nil, fmt.Errorf("load admin signature: %w", err)
	}
	stamp, err := e.blobs.Get(ctx, *admin.StampPath)
	if err != nil {
		return nil, fmt.Errorf("load admin stamp: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	var (
		result *SignResult
		owner  *types.Submission
	)
	err = e.store.InTx(ctx, func(ctx context.Context, tx store.Datastore) error {
		submission, err := tx.Submissions().ByIDForUpdate(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission.Status != types.StatusPendingEndorsement {
			return &types.InvalidTransitionError{From: submission.Status, To: types.StatusEndorsed}
		}

		sourceURL := submission.AppointmentLetterURL
		if docType == types.DocumentPostingLetter {
			sourceURL = submission.PostingLetterURL
		}
		if sourceURL == nil || *sourceURL == "" {
			return fmt.Errorf("no %s on submission %s: %w", docType, submission.ID, types.ErrNotFound)
		}

		sourceKey, source, err := e.resolveSource(ctx, *sourceURL)
		if err != nil {
			return err
		}

		signed, err := e.signer.Sign(pdf.SignRequest{
			Source:         source,
			Signature:      signature,
			Stamp:          stamp,
			SubmissionDate: submission.CreatedAt,
		})
		if err != nil {
			if isValidationError(err) {
				return err
			}
			e.logger.WithError(err).WithField("submission_id", submission.ID).Error("pdf signing failed")
			return fmt.Errorf("%w: failed to sign pdf", types.ErrExternalService)
		}

		sum := sha256.Sum256(signed)
		hash := hex.EncodeToString(sum[:])

		signedKey := signedKeyFor(sourceKey)
		signedURL, err := e.blobs.Upload(ctx, signedKey, signed, "application/pdf")
		if err != nil {
			return fmt.Errorf("%w: store signed pdf: %w", types.ErrExternalService, err)
		}

		document := &types.Document{
			SubmissionID: submission.ID,
			AdminID:      admin.ID,
			OriginalURL:  e.blobs.PublicURL(sourceKey),
			SignedURL:    signedURL,
			DocumentHash: hash,
			SignedAt:     e.now(),
		}
		if err := tx.Documents().Create(ctx, document); err != nil {
			return err
		}

		if docType == types.DocumentPostingLetter {
			submission.PostingLetterURL = &signedURL
		} else {
			submission.AppointmentLetterURL = &signedURL
		}
		submission.Status = types.StatusEndorsed
		submission.UpdatedAt = e.now()
		if err := tx.Submissions().Update(ctx, submission); err != nil {
			return err
		}

		if err := tx.Audits().Append(ctx, &types.AuditLog{
			SubmissionID: &submission.ID,
			Action:       types.StatusChangeAction(types.StatusEndorsed),
			UserID:       admin.ID,
			Details:      fmt.Sprintf("Document %s signed for submission %s", path.Base(signedKey), submission.ID),
		}); err != nil {
			return err
		}
		if err := e.notifyStatusChange(ctx, tx, admin, submission, types.StatusEndorsed); err != nil {
			return err
		}

		owner = submission
		result = &SignResult{DocumentID: document.ID, SignedURL: signedURL, Hash: hash}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.dispatcher.Enqueue(notify.DocumentEndorsedEmail(owner.Email, owner.FullName, owner.NssNumber, owner.ID))

	e.logger.WithFields(logrus.Fields{
		"submission_id": owner.ID,
		"document_id":   result.DocumentID,
		"admin_id":      admin.ID,
	}).Info("document signed and endorsed")

	return result, nil
}

// resolveSource turns a stored letter URL into (key, bytes). URLs minted
// by this system resolve through the blob store directly; records carried
// over from the previous hosting provider hold foreign absolute URLs, so
// those are fetched once over HTTP and cached under a derived key.
func (e *Engine) resolveSource(ctx context.Context, rawURL string) (string, []byte, error) {
	key, err := e.blobs.KeyFromURL(rawURL)
	if err == nil {
		data, err := e.blobs.Get(ctx, key)
		if err == nil {
			return key, data, nil
		}
		if !errors.Is(err, types.ErrNotFound) {
			return "", nil, err
		}
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", nil, fmt.Errorf("source document %s: %w", rawURL, types.ErrFileNotFound)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("parse source document url: %w", err)
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", nil, fmt.Errorf("source document %s: %w", rawURL, types.ErrFileNotFound)
	}

	data, err := e.fetchRemote(ctx, rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("%w: fetch legacy document: %w", types.ErrExternalService, err)
	}

	// Cache so subsequent operations resolve locally.
	if _, err := e.blobs.Upload(ctx, key, data, "application/pdf"); err != nil {
		return "", nil, fmt.Errorf("%w: cache legacy document: %w", types.ErrExternalService, err)
	}
	return key, data, nil
}

func (e *Engine) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteDocumentSize))
}

// signedKeyFor keeps the signed artifact next to its source:
// dir/file.pdf becomes dir/signed-file.pdf.
func signedKeyFor(sourceKey string) string {
	dir, base := path.Split(sourceKey)
	return dir + "signed-" + base
}
