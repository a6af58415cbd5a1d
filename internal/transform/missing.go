package transform

import (
	"heartetl/internal/dataset"
	"heartetl/internal/logging"
)

// NormalizeMissing rewrites every cell equal to the sentinel string as the
// nil missing marker. It touches nothing else.
type NormalizeMissing struct {
	Sentinel string
}

// Apply returns a new table with sentinel cells replaced by nil.
func (s NormalizeMissing) Apply(in *dataset.Table) *dataset.Table {
	sentinel := s.Sentinel
	if sentinel == "" {
		sentinel = MissingSentinel
	}
	out := in.Clone()
	for _, c := range out.Columns() {
		for i, v := range c.Values {
			if str, ok := v.(string); ok && str == sentinel {
				c.Values[i] = nil
			}
		}
	}
	return out
}

// DropMissing removes every row containing at least one missing (nil) cell.
type DropMissing struct {
	Log logging.Logger
}

// Apply returns a new table holding only complete rows.
func (d DropMissing) Apply(in *dataset.Table) *dataset.Table {
	n := in.NumRows()
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !in.HasMissing(i) {
			keep = append(keep, i)
		}
	}
	out := in.Select(keep)
	if d.Log != nil {
		d.Log.Infof("removed rows with missing values, remaining: %d rows", out.NumRows())
	}
	return out
}
