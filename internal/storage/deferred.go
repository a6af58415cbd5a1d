package storage

import (
	"context"

	"heartetl/internal/dataset"
)

// deferred is a Repository that opens its backend connection at write time.
// Every failure of the replace-table write, including failing to reach the
// store at all, surfaces as a *LoadError from Replace.
type deferred struct {
	cfg Config
}

// Deferred returns a Repository that opens a fresh connection on each Replace
// and closes it afterwards. The pipeline performs exactly one write per run,
// so nothing is kept open across runs.
func Deferred(cfg Config) Repository { return deferred{cfg: cfg} }

// Replace implements Repository.
func (d deferred) Replace(ctx context.Context, t *dataset.Table) error {
	repo, err := New(ctx, d.cfg)
	if err != nil {
		return &LoadError{Table: d.cfg.Table, Err: err}
	}
	defer repo.Close()
	return repo.Replace(ctx, t)
}

// Close implements Repository; there is nothing held open between writes.
func (deferred) Close() {}
