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

const notificationTableName = "naspac.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationStore interface {
	Create(ctx context.Context, notification *types.Notification) error
	ListFor(ctx context.Context, userID string, role types.Role, skip, take uint64) ([]*types.Notification, error)
}

type NotificationRepository struct {
	db db.Querier
}

func NewNotificationRepository(q db.Querier) *NotificationRepository {
	return &NotificationRepository{db: q}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *types.Notification) error {
	if notification.ID == "" {
		notification.ID = utils.NanoID()
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}

	query, args, err := psql().
		Insert(notificationTableName).
		SetMap(utils.StructToMap(notification)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create notification")
}

// ListFor returns role-wide notifications plus the caller's own, newest
// first. PERSONNEL only ever see their own slice of the role feed.
func (r *NotificationRepository) ListFor(ctx context.Context, userID string, role types.Role, skip, take uint64) ([]*types.Notification, error) {
	pred := sq.Or{
		sq.Eq{"role": role, "user_id": nil},
		sq.Eq{"user_id": userID},
	}
	if role == types.RolePersonnel {
		pred = sq.Or{sq.Eq{"role": role, "user_id": userID}}
	}

	query, args, err := psql().
		Select(notificationColumns...).
		From(notificationTableName).
		Where(pred).
		OrderBy("timestamp DESC").
		Offset(skip).
		Limit(take).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	notifications := make([]*types.Notification, 0)
	if err := pgxscan.Select(ctx, r.db, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}
