package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"naspac/internal/db"
	"naspac/internal/utils"
	"naspac/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
)

const submissionTableName = "naspac.submissions"

var submissionColumns = utils.StructTagValues(types.Submission{})

type SubmissionStore interface {
	ByID(ctx context.Context, submissionID string) (*types.Submission, error)
	ByIDForUpdate(ctx context.Context, submissionID string) (*types.Submission, error)
	ByUser(ctx context.Context, userID string) (*types.Submission, error)
	Create(ctx context.Context, submission *types.Submission) error
	Update(ctx context.Context, submission *types.Submission) error
	CountByYear(ctx context.Context, year int) (int64, error)
}

type SubmissionRepository struct {
	db db.Querier
}

func NewSubmissionRepository(q db.Querier) *SubmissionRepository {
	return &SubmissionRepository{db: q}
}

func (r *SubmissionRepository) ByID(ctx context.Context, submissionID string) (*types.Submission, error) {
	return r.get(ctx, sq.Eq{"id": submissionID}, "")
}

// ByIDForUpdate locks the submission row for the enclosing transaction.
// Concurrent transitions on the same submission serialize here.
func (r *SubmissionRepository) ByIDForUpdate(ctx context.Context, submissionID string) (*types.Submission, error) {
	return r.get(ctx, sq.Eq{"id": submissionID}, "FOR UPDATE")
}

func (r *SubmissionRepository) ByUser(ctx context.Context, userID string) (*types.Submission, error) {
	return r.get(ctx, sq.Eq{"user_id": userID}, "")
}

func (r *SubmissionRepository) get(ctx context.Context, pred sq.Eq, suffix string) (*types.Submission, error) {
	builder := psql().
		Select(submissionColumns...).
		From(submissionTableName).
		Where(pred).
		Where(sq.Eq{"deleted_at": nil}).
		Limit(1)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submission query: %w", err)
	}

	var submission types.Submission
	err = pgxscan.Get(ctx, r.db, &submission, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to fetch submission: %w", err)
	}

	return &submission, nil
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *types.Submission) error {
	now := time.Now()
	if submission.ID == "" {
		submission.ID = utils.NanoID()
	}
	submission.CreatedAt = now
	submission.UpdatedAt = now

	query, args, err := psql().
		Insert(submissionTableName).
		SetMap(utils.StructToMap(submission)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert submission query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("submission already exists for this user and NSS number: %w", types.ErrConflict)
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

func (r *SubmissionRepository) Update(ctx context.Context, submission *types.Submission) error {
	submission.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(submissionTableName).
		SetMap(utils.StructToMap(submission)).
		Where(sq.Eq{"id": submission.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update submission query for submission %s: %w", submission.ID, err)
	}

	_, err = r.db.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update submission")
}

func (r *SubmissionRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	query, args, err := psql().
		Select("count(*)").
		From(submissionTableName + " s").
		Join("naspac.users u ON u.id = s.user_id").
		Where(sq.Eq{"s.deleted_at": nil, "u.role": types.RolePersonnel, "s.year_of_nss": year}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate submission count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.db, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}
