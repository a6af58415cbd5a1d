package transform

import (
	"strconv"

	"heartetl/internal/dataset"
	"heartetl/internal/logging"
)

// CoerceNumeric converts each fully numeric-parseable column to typed numeric
// values. Conversion is all-or-nothing per column: if a single cell fails to
// parse, the column is left completely unchanged and a warning names it.
//
// A column whose every cell parses as an integer becomes int64; otherwise, if
// every cell parses as a float (locale-invariant decimal point), it becomes
// float64. Cells that are already int64 or float64 pass through.
type CoerceNumeric struct {
	Log logging.Logger
}

// Apply returns a new table with numeric columns typed.
func (c CoerceNumeric) Apply(in *dataset.Table) *dataset.Table {
	out := in.Clone()
	for _, col := range out.Columns() {
		converted, ok := coerceColumn(col.Values)
		if !ok {
			if c.Log != nil {
				c.Log.Warnf("column %q could not be converted to numeric, skipping", col.Name)
			}
			continue
		}
		copy(col.Values, converted)
	}
	return out
}

// coerceColumn attempts the all-or-nothing numeric conversion of one column.
// It reports false when any value fails to parse; the caller then keeps the
// original column.
func coerceColumn(values []any) ([]any, bool) {
	if len(values) == 0 {
		return values, true
	}

	out := make([]any, len(values))
	allInt := true

	for i, v := range values {
		switch t := v.(type) {
		case int64:
			out[i] = t
		case float64:
			out[i] = t
			allInt = false
		case string:
			if n, err := strconv.ParseInt(t, 10, 64); err == nil {
				out[i] = n
				continue
			}
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return nil, false
			}
			out[i] = f
			allInt = false
		default:
			// nil or an unexpected type: not a numeric column.
			return nil, false
		}
	}

	if !allInt {
		// Promote any int64 cells so the column holds a single type.
		for i, v := range out {
			if n, ok := v.(int64); ok {
				out[i] = float64(n)
			}
		}
	}
	return out, true
}
