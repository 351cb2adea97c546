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

const departmentTableName = "naspac.departments"

var departmentColumns = utils.StructTagValues(types.Department{})

type DepartmentStore interface {
	ByID(ctx context.Context, departmentID string) (*types.Department, error)
	ByName(ctx context.Context, name string) (*types.Department, error)
	Create(ctx context.Context, department *types.Department) error
}

type DepartmentRepository struct {
	db db.Querier
}

func NewDepartmentRepository(q db.Querier) *DepartmentRepository {
	return &DepartmentRepository{db: q}
}

func (r *DepartmentRepository) ByID(ctx context.Context, departmentID string) (*types.Department, error) {
	return r.get(ctx, sq.Eq{"id": departmentID})
}

func (r *DepartmentRepository) ByName(ctx context.Context, name string) (*types.Department, error) {
	return r.get(ctx, sq.Eq{"name": name})
}

func (r *DepartmentRepository) get(ctx context.Context, pred sq.Eq) (*types.Department, error) {
	pred["deleted_at"] = nil
	query, args, err := psql().
		Select(departmentColumns...).
		From(departmentTableName).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate department query: %w", err)
	}

	var department types.Department
	err = pgxscan.Get(ctx, r.db, &department, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("department %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch department: %w", err)
	}

	return &department, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, department *types.Department) error {
	now := time.Now()
	if department.ID == "" {
		department.ID = utils.NanoID()
	}
	department.CreatedAt = now
	department.UpdatedAt = now

	query, args, err := psql().
		Insert(departmentTableName).
		SetMap(utils.StructToMap(department)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create department query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create department")
}
