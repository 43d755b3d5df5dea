package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executor is the query surface shared by *pgxpool.Pool and pgx.Tx.
// Repositories are bound to an Executor, so the same implementation serves
// both pooled access and the Atomic unit of work.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgreSQL error codes surfaced as domain errors.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)
