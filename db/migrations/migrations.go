// Package migrations embeds the SQL schema migrations for every supported
// database dialect. Files use goose annotations and are applied in version order.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Dialect names match the subdirectories of this package.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// FS returns the migrations filesystem for the given dialect.
func FS(dialect string) (fs.FS, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("unsupported migrations dialect '%s'", dialect)
	}

	sub, err := fs.Sub(migrationsFS, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed getting %s migrations directory: %w", dialect, err)
	}

	return sub, nil
}
