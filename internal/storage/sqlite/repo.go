// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. SQLite has no dedicated bulk-load API, so the replace-table
// write issues prepared single-row INSERTs inside one transaction together
// with the DROP/CREATE.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"heartetl/internal/dataset"
	"heartetl/internal/ddl"
	"heartetl/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens the database file named by the URI and pings it to
// fail fast on an invalid path.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	dsn, err := dsnFromURI(cfg.URI)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, table: cfg.Table}, nil
}

// dsnFromURI turns sqlite://path/to.db (or file:...) into a driver DSN.
func dsnFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("sqlite: parse uri: %w", err)
	}
	// sqlite://name.db puts the file in Host; sqlite:///abs/path.db leaves
	// Host empty with an absolute Path; file:name.db is opaque.
	path := u.Opaque
	if path == "" {
		if u.Host != "" {
			path = u.Host + u.Path
		} else {
			path = u.Path
		}
	}
	if path == "" {
		return "", fmt.Errorf("sqlite: uri %q names no database file", uri)
	}
	return path, nil
}

// MapType maps an in-memory column kind to the SQLite SQL type.
func MapType(k dataset.Kind) string {
	switch k {
	case dataset.KindInt:
		return "INTEGER"
	case dataset.KindFloat:
		return "REAL"
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

	cols := t.ColumnNames()
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		r.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	))
	if err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("prepare insert: %w", err)}
	}
	defer stmt.Close()

	for i, row := range t.Rows() {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return &storage.LoadError{Table: r.table, Err: fmt.Errorf("insert row %d: %w", i, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &storage.LoadError{Table: r.table, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() { _ = r.db.Close() }
