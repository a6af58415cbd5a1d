package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"heartetl/internal/dataset"
	"heartetl/internal/logging"
	"heartetl/internal/storage"
	"heartetl/internal/transform"
)

type stubSource struct {
	tbl *dataset.Table
	err error

	gotID int
}

func (s *stubSource) Fetch(ctx context.Context, id int) (*dataset.Table, error) {
	s.gotID = id
	return s.tbl, s.err
}

type recordingSink struct {
	got      *dataset.Table
	replaced int
	err      error
}

func (r *recordingSink) Replace(ctx context.Context, t *dataset.Table) error {
	r.got = t
	r.replaced++
	return r.err
}

func (r *recordingSink) Close() {}

func rawHeartTable() *dataset.Table {
	return dataset.MustNew(
		dataset.Column{Name: "age", Values: []any{"29", "29", "60", "44"}},
		dataset.Column{Name: "chol", Values: []any{"240", "240", "190", "?"}},
	)
}

func TestRun_CleansAndLoadsOnce(t *testing.T) {
	src := &stubSource{tbl: rawHeartTable()}
	sink := &recordingSink{}
	p := New(src, transform.NewCleanChain(logging.Nop()), sink, 45, "heart_disease", logging.Nop())

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if src.gotID != 45 {
		t.Errorf("fetched dataset %d, want 45", src.gotID)
	}
	if sink.replaced != 1 {
		t.Fatalf("Replace called %d times, want 1", sink.replaced)
	}

	// Duplicate first row deduped, "?" row dropped, values coerced.
	want := [][]any{
		{int64(29), int64(240)},
		{int64(60), int64(190)},
	}
	if !reflect.DeepEqual(sink.got.Rows(), want) {
		t.Errorf("loaded rows: got %v, want %v", sink.got.Rows(), want)
	}
}

func TestRun_FetchFailureIsFatal(t *testing.T) {
	fetchErr := errors.New("repository unreachable")
	src := &stubSource{err: fetchErr}
	sink := &recordingSink{}
	p := New(src, transform.NewCleanChain(logging.Nop()), sink, 45, "heart_disease", logging.Nop())

	if err := p.Run(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("got %v, want fetch error", err)
	}
	if sink.replaced != 0 {
		t.Error("Replace ran despite fetch failure")
	}
}

func TestRun_LoadFailureIsSwallowed(t *testing.T) {
	src := &stubSource{tbl: rawHeartTable()}
	sink := &recordingSink{err: &storage.LoadError{Table: "heart_disease", Err: errors.New("connection refused")}}
	p := New(src, transform.NewCleanChain(logging.Nop()), sink, 45, "heart_disease", logging.Nop())

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned %v; load failures must not be fatal", err)
	}
	if sink.replaced != 1 {
		t.Errorf("Replace called %d times, want 1", sink.replaced)
	}
}

func TestNew_NilLoggerGetsNop(t *testing.T) {
	p := New(&stubSource{tbl: dataset.Empty()}, nil, &recordingSink{}, 1, "t", nil)
	if p.Log == nil {
		t.Fatal("nil logger not defaulted")
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
