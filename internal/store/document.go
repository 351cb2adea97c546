package store

import (
	"context"
	"fmt"
	"time"

	"naspac/internal/db"
	"naspac/internal/utils"
	"naspac/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const documentTableName = "naspac.documents"

var documentColumns = utils.StructTagValues(types.Document{})

type DocumentStore interface {
	Create(ctx context.Context, document *types.Document) error
	LatestBySubmission(ctx context.Context, submissionID string) (*types.Document, error)
}

type DocumentRepository struct {
	db db.Querier
}

func NewDocumentRepository(q db.Querier) *DocumentRepository {
	return &DocumentRepository{db: q}
}

// Create inserts a signing record. Documents are immutable; there is no
// update path.
func (r *DocumentRepository) Create(ctx context.Context, document *types.Document) error {
	if document.ID == "" {
		document.ID = utils.NanoID()
	}
	if document.SignedAt.IsZero() {
		document.SignedAt = time.Now()
	}

	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(document)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert document query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}

// LatestBySubmission returns the authoritative (most recent by signed_at)
// document for a submission.
func (r *DocumentRepository) LatestBySubmission(ctx context.Context, submissionID string) (*types.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentTableName).
		Where(sq.Eq{"submission_id": submissionID}).
		OrderBy("signed_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate latest document query: %w", err)
	}

	var document types.Document
	err = pgxscan.Get(ctx, r.db, &document, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch latest document: %w", err)
	}

	return &document, nil
}
