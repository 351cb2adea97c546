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

const userTableName = "naspac.users"

var userColumns = utils.StructTagValues(types.User{})

type UserStore interface {
	ByID(ctx context.Context, userID string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	SetSignaturePath(ctx context.Context, userID, path string) error
	SetStampPath(ctx context.Context, userID, path string) error
	StaffContacts(ctx context.Context) ([]*types.User, error)
}

type UserRepository struct {
	db db.Querier
}

func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{db: q}
}

func (r *UserRepository) ByID(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID, "deleted_at": nil}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) SetSignaturePath(ctx context.Context, userID, path string) error {
	return r.setImagePath(ctx, userID, "signature_path", path)
}

func (r *UserRepository) SetStampPath(ctx context.Context, userID, path string) error {
	return r.setImagePath(ctx, userID, "stamp_path", path)
}

func (r *UserRepository) setImagePath(ctx context.Context, userID, column, path string) error {
	query, args, err := psql().
		Update(userTableName).
		Set(column, path).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": userID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user %s query: %w", column, err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update user image path")
}

// StaffContacts returns live STAFF users, used for verification-form
// email fan-out.
func (r *UserRepository) StaffContacts(ctx context.Context) ([]*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"role": types.RoleStaff, "deleted_at": nil}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate staff contacts query: %w", err)
	}

	staff := make([]*types.User, 0)
	if err := pgxscan.Select(ctx, r.db, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch staff contacts: %w", err)
	}

	return staff, nil
}
