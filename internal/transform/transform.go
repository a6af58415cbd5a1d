// Package transform implements the cleaning stage as a chain of pure steps.
// Each step consumes a Table and produces a new Table; no step ever fails.
// Columns that cannot be converted are left untouched with a warning, which
// keeps the whole chain total and composable.
package transform

import (
	"heartetl/internal/dataset"
	"heartetl/internal/logging"
)

// Step is a single table-to-table transformation.
type Step interface {
	Apply(*dataset.Table) *dataset.Table
}

// Chain is an ordered list of steps applied left to right.
type Chain []Step

// Apply runs every step in order, feeding each the previous output.
func (c Chain) Apply(in *dataset.Table) *dataset.Table {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}

// NewCleanChain returns the fixed cleaning sequence: duplicate removal,
// missing-marker normalization, missing-row drop, numeric coercion, date
// normalization. The order matters; duplicates are judged on the raw values,
// before sentinel normalization.
func NewCleanChain(log logging.Logger) Chain {
	if log == nil {
		log = logging.Nop()
	}
	return Chain{
		Dedupe{Log: log},
		NormalizeMissing{Sentinel: MissingSentinel},
		DropMissing{Log: log},
		CoerceNumeric{Log: log},
		NormalizeDates{Log: log},
	}
}

// MissingSentinel is the literal string the source uses to mark absent data.
const MissingSentinel = "?"
