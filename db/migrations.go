// Package db embeds the goose SQL migrations so binaries and tests can
// apply them without a checkout of the repository.
package db

import "embed"

// MigrationsDir is the directory of Migrations that goose reads from.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
