// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: blank-importing it runs the init
// functions of each backend, which register their factories with the storage
// package. A binary that should support only a subset of backends can import
// the individual packages instead.
package all

import (
	_ "heartetl/internal/storage/mssql"
	_ "heartetl/internal/storage/mysql"
	_ "heartetl/internal/storage/postgres"
	_ "heartetl/internal/storage/sqlite"
)
