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

const auditTableName = "naspac.audit_logs"

type AuditStore interface {
	Append(ctx context.Context, entry *types.AuditLog) error
	CountDistinctSubmissions(ctx context.Context, action string, year int) (int64, error)
}

type AuditRepository struct {
	db db.Querier
}

func NewAuditRepository(q db.Querier) *AuditRepository {
	return &AuditRepository{db: q}
}

// Append inserts an audit entry. The table is append-only; nothing here
// ever updates or deletes rows.
func (r *AuditRepository) Append(ctx context.Context, entry *types.AuditLog) error {
	if entry.ID == "" {
		entry.ID = utils.NanoID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query, args, err := psql().
		Insert(auditTableName).
		SetMap(utils.StructToMap(entry)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert audit query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append audit log")
}

// CountDistinctSubmissions counts live PERSONNEL submissions of the given
// service year that ever recorded the action. Current status columns are
// overwritten on each transition, so historical reporting reads the audit
// trail instead.
func (r *AuditRepository) CountDistinctSubmissions(ctx context.Context, action string, year int) (int64, error) {
	query, args, err := psql().
		Select("count(DISTINCT a.submission_id)").
		From(auditTableName + " a").
		Join("naspac.submissions s ON s.id = a.submission_id").
		Join("naspac.users u ON u.id = s.user_id").
		Where(sq.Eq{
			"a.action":      action,
			"s.deleted_at":  nil,
			"u.role":        types.RolePersonnel,
			"s.year_of_nss": year,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate audit count query: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, r.db, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count audit submissions: %w", err)
	}

	return count, nil
}
