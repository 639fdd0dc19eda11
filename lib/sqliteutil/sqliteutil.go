package sqliteutil

import (
	"database/sql"
	"strings"

	devenv "preciazo-backend/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// opens a sqlite database at `path` (supports the `<dev_state>` prefix)
// and applies the given schema, tolerating schemas that were already
// applied by a previous run.
func OpenDB(schema, path string) (*sql.DB, error) {
	resolved, err := devenv.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	database, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, err
	}
	// sqlite serializes writers anyway, and a pool of connections
	// against `:memory:` would each get their own empty database
	database.SetMaxOpenConns(1)
	_, err = database.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return nil, err
	}
	return database, nil
}
