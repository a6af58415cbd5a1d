package transform

import (
	"strings"
	"time"

	"heartetl/internal/dataset"
	"heartetl/internal/logging"
)

// dateLayouts are the calendar formats accepted when normalizing date
// columns, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// NormalizeDates canonicalizes every column whose name contains "date"
// (case-insensitive) to YYYY-MM-DD strings. Individual cells that parse under
// none of the accepted layouts become the missing marker; a column where not
// a single cell parses is left unchanged with a warning.
//
// The default dataset has no date-named column, so this step is usually a
// no-op, but it still runs on every table.
type NormalizeDates struct {
	Log logging.Logger
}

// Apply returns a new table with date columns normalized.
func (d NormalizeDates) Apply(in *dataset.Table) *dataset.Table {
	out := in.Clone()
	for _, col := range out.Columns() {
		if !strings.Contains(strings.ToLower(col.Name), "date") {
			continue
		}
		normalized, parsed := normalizeDateColumn(col.Values)
		if parsed == 0 {
			if d.Log != nil {
				d.Log.Warnf("could not standardize column %q to date format: no value matched an accepted layout", col.Name)
			}
			continue
		}
		copy(col.Values, normalized)
		if d.Log != nil {
			d.Log.Infof("standardized date column %q", col.Name)
		}
	}
	return out
}

// normalizeDateColumn converts one column's cells and reports how many cells
// parsed successfully. Non-string and unparseable cells become nil.
func normalizeDateColumn(values []any) ([]any, int) {
	out := make([]any, len(values))
	parsed := 0
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			out[i] = nil
			continue
		}
		t, err := parseDate(s)
		if err != nil {
			out[i] = nil
			continue
		}
		out[i] = t.Format("2006-01-02")
		parsed++
	}
	return out, parsed
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
