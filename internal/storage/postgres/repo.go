// Package postgres implements the Postgres repository using pgx v5. The
// replace-table write runs DROP TABLE IF EXISTS, CREATE TABLE, and a COPY of
// every row inside one transaction, so readers never observe a half-replaced
// table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"heartetl/internal/dataset"
	"heartetl/internal/ddl"
	"heartetl/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository opens a pgx pool for the configured URI.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, table: cfg.Table}, nil
}

// MapType maps an in-memory column kind to the Postgres SQL type.
func MapType(k dataset.Kind) string {
	switch k {
	case dataset.KindInt:
		return "BIGINT"
	case dataset.KindFloat:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// Replace implements storage.Repository.
func (r *Repository) Replace(ctx context.Context, t *dataset.Table) error {
	def, err := ddl.Infer(r.table, t, MapType)
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: err}
	}
	create, err := ddl.BuildCreateTableSQL(def)
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: err}
	}
	drop, err := ddl.BuildDropTableSQL(r.table)
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: err}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("begin: %w", err)}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, drop); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("drop: %w", err)}
	}
	if _, err := tx.Exec(ctx, create); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("create: %w", err)}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{r.table}, t.ColumnNames(), pgx.CopyFromRows(t.Rows()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return &storage.LoadError{Table: r.table, Err: fmt.Errorf("copy: %s (%s)", pgErr.Detail, pgErr.SQLState())}
		}
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("copy: %w", err)}
	}
	if n != int64(t.NumRows()) {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("copy wrote %d of %d rows", n, t.NumRows())}
	}

	if err := tx.Commit(ctx); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() { r.pool.Close() }
