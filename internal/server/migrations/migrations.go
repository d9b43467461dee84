// Package migrations embeds the goose SQL migrations for the SQL user stores.
package migrations

import "embed"

// Postgres and SQLite keep separate directories because their DDL differs.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
