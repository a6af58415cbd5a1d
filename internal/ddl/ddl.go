// Package ddl defines a small, backend-agnostic model for table definitions
// and renders the CREATE TABLE / DROP TABLE statements used by the
// replace-table load. It stays dialect-neutral: identifiers are emitted
// as-is and type names come from the backend's own type mapper.
package ddl

import (
	"fmt"
	"strings"

	"heartetl/internal/dataset"
)

// ColumnDef describes a single destination column.
type ColumnDef struct {
	Name    string
	SQLType string
}

// TableDef holds a destination table name and its ordered columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// TypeMapper converts an in-memory column kind to a dialect's SQL type name.
type TypeMapper func(dataset.Kind) string

// Infer derives a TableDef from a table's in-memory column kinds: integer
// columns map through the backend's integer type, float columns through its
// double type, and everything else lands as text.
func Infer(name string, t *dataset.Table, mapType TypeMapper) (TableDef, error) {
	if strings.TrimSpace(name) == "" {
		return TableDef{}, fmt.Errorf("ddl: table name must not be empty")
	}
	if t.NumCols() == 0 {
		return TableDef{}, fmt.Errorf("ddl: table %s has no columns", name)
	}
	cols := make([]ColumnDef, 0, t.NumCols())
	for _, c := range t.Columns() {
		cols = append(cols, ColumnDef{
			Name:    c.Name,
			SQLType: mapType(t.KindOf(c.Name)),
		})
	}
	return TableDef{Name: name, Columns: cols}, nil
}

// BuildCreateTableSQL renders a CREATE TABLE statement of the form:
//
//	CREATE TABLE <name> (
//	  <col1> <type1>,
//	  ...
//	);
//
// Identifiers are emitted verbatim; callers own quoting if their names
// require it.
func BuildCreateTableSQL(t TableDef) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cn := strings.TrimSpace(c.Name)
		if cn == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		ct := strings.TrimSpace(c.SQLType)
		if ct == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", cn)
		}
		cols = append(cols, cn+" "+ct)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", name, strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL renders the DROP TABLE IF EXISTS statement preceding the
// replace-table write.
func BuildDropTableSQL(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	return "DROP TABLE IF EXISTS " + name + ";", nil
}
