// Package store holds the Postgres repositories and the Datastore
// interface the workflow engine depends on. Repositories are bound to a
// db.Querier so the same code runs against the pool or a transaction.
package store

import (
	"context"

	"naspac/internal/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Datastore vends the repositories and runs transactional units of work.
// Inside InTx the callback receives a Datastore whose repositories are
// bound to the transaction; all writes commit or roll back together.
type Datastore interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Datastore) error) error

	Users() UserStore
	Departments() DepartmentStore
	Submissions() SubmissionStore
	Documents() DocumentStore
	Audits() AuditStore
	Notifications() NotificationStore
	Templates() TemplateStore
}

type Postgres struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, q: pool}
}

func (p *Postgres) InTx(ctx context.Context, fn func(ctx context.Context, tx Datastore) error) error {
	if p.pool == nil {
		// Already transaction-bound; run in the enclosing transaction.
		return fn(ctx, p)
	}
	return db.WithTx(ctx, p.pool, pgx.TxOptions{}, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &Postgres{q: tx})
	})
}

func (p *Postgres) Users() UserStore                 { return &UserRepository{db: p.q} }
func (p *Postgres) Departments() DepartmentStore     { return &DepartmentRepository{db: p.q} }
func (p *Postgres) Submissions() SubmissionStore     { return &SubmissionRepository{db: p.q} }
func (p *Postgres) Documents() DocumentStore         { return &DocumentRepository{db: p.q} }
func (p *Postgres) Audits() AuditStore               { return &AuditRepository{db: p.q} }
func (p *Postgres) Notifications() NotificationStore { return &NotificationRepository{db: p.q} }
func (p *Postgres) Templates() TemplateStore         { return &TemplateRepository{db: p.q} }
