package transform

import (
	"heartetl/internal/dataset"
	"heartetl/internal/logging"
)

// Dedupe removes rows that exactly duplicate an earlier row (value equality
// in every column), keeping the first occurrence and preserving row order.
//
// Rows are grouped by a 64-bit xxh3 fingerprint; candidates sharing a digest
// are confirmed with a full-row comparison so a hash collision can never
// merge two distinct rows.
type Dedupe struct {
	Log logging.Logger
}

// Apply returns a new table without duplicate rows. Deduplicating an already
// deduplicated table removes nothing.
func (d Dedupe) Apply(in *dataset.Table) *dataset.Table {
	n := in.NumRows()
	if n == 0 {
		return in.Clone()
	}

	seen := make(map[uint64][]int, n)
	keep := make([]int, 0, n)

	for i := 0; i < n; i++ {
		h := in.Fingerprint(i)
		dup := false
		for _, j := range seen[h] {
			if in.EqualRows(i, j) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], i)
		keep = append(keep, i)
	}

	removed := n - len(keep)
	if d.Log != nil {
		d.Log.Infof("removed %d duplicate rows", removed)
	}
	if removed == 0 {
		return in.Clone()
	}
	return in.Select(keep)
}
