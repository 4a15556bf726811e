package persistence

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// TxInfo holds the pgx transaction in context and whether the caller owns it.
type TxInfo struct {
	Tx    pgx.Tx
	Owned bool
}

// WithTx stores transaction info in the context.
func WithTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned})
}

// TxInfoFromContext extracts transaction info from the context.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	if !ok || info.Tx == nil {
		return TxInfo{}, false
	}
	return info, true
}

// DBExecutor abstracts pgxpool.Pool and pgx.Tx for shared query execution.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor returns the in-context transaction when present, otherwise the pool.
func Executor(ctx context.Context, pool *pgxpool.Pool) DBExecutor {
	if info, ok := TxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return pool
}

type sqlTxKey struct{}

// SQLTxInfo holds the database/sql transaction and ownership info.
type SQLTxInfo struct {
	Tx    *sql.Tx
	Owned bool
}

// WithSQLTx stores a database/sql transaction in the context.
func WithSQLTx(ctx context.Context, tx *sql.Tx, owned bool) context.Context {
	return context.WithValue(ctx, sqlTxKey{}, SQLTxInfo{Tx: tx, Owned: owned})
}

// SQLTxInfoFromContext extracts a database/sql transaction from the context.
func SQLTxInfoFromContext(ctx context.Context) (SQLTxInfo, bool) {
	info, ok := ctx.Value(sqlTxKey{}).(SQLTxInfo)
	if !ok || info.Tx == nil {
		return SQLTxInfo{}, false
	}
	return info, true
}

// SQLExecutor abstracts *sql.DB and *sql.Tx for shared query execution.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLDB returns the in-context transaction when present, otherwise the db.
func SQLDB(ctx context.Context, db *sql.DB) SQLExecutor {
	if info, ok := SQLTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return db
}
