// Package mssql implements a SQL Server repository using go-mssqldb. The
// replace-table write drops and recreates the target table, then streams rows
// through the driver's bulk copy (mssql.CopyIn) inside one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"heartetl/internal/dataset"
	"heartetl/internal/ddl"
	"heartetl/internal/storage"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQL Server-backed storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository validates the DSN early and opens a connection pool.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if _, err := msdsn.Parse(cfg.URI); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return &Repository{db: db, table: cfg.Table}, nil
}

// MapType maps an in-memory column kind to the SQL Server type.
func MapType(k dataset.Kind) string {
	switch k {
	case dataset.KindInt:
		return "BIGINT"
	case dataset.KindFloat:
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
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

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("drop: %w", err)}
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("create: %w", err)}
	}

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.table, mssql.BulkOptions{}, t.ColumnNames()...))
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("prepare bulk copy: %w", err)}
	}
	for i, row := range t.Rows() {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			return &storage.LoadError{Table: r.table, Err: fmt.Errorf("bulk copy row %d: %w", i, err)}
		}
	}
	// Final Exec with no arguments flushes the bulk copy.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("flush bulk copy: %w", err)}
	}
	if err := stmt.Close(); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("close bulk copy: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Close closes the connection pool.
func (r *Repository) Close() { _ = r.db.Close() }
