// Package migrations embeds the goose SQL migrations of the run history store.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

// Postgres returns the PostgreSQL migrations with the *.sql files at the root.
func Postgres() fs.FS {
	sub, err := fs.Sub(postgresFS, "postgres")
	if err != nil {
		panic(err) // only fails on an invalid path literal
	}
	return sub
}
