package store

import (
	"context"
	"fmt"
	"time"

	"naspac/internal/db"
	"naspac/internal/utils"
	"naspac/pkg/types"
)

const templateTableName = "naspac.templates"

type TemplateStore interface {
	Create(ctx context.Context, template *types.Template) error
}

type TemplateRepository struct {
	db db.Querier
}

func NewTemplateRepository(q db.Querier) *TemplateRepository {
	return &TemplateRepository{db: q}
}

func (r *TemplateRepository) Create(ctx context.Context, template *types.Template) error {
	now := time.Now()
	if template.ID == "" {
		template.ID = utils.NanoID()
	}
	template.CreatedAt = now
	template.UpdatedAt = now

	query, args, err := psql().
		Insert(templateTableName).
		SetMap(utils.StructToMap(template)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create template query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create template")
}
