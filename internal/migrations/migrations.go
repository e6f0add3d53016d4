// Package migrations embeds the goose SQL migrations for the data store,
// one directory per supported dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
