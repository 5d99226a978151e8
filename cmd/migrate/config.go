package main

import (
	"io/fs"
	"os"

	"bookcatalog/db"
)

const sourceMigrations = "db/migrations"

// migrationSource returns the filesystem and directory goose reads from.
// Without MIGRATIONS_DIR the binary uses the migrations embedded at build
// time; a nil filesystem means the OS filesystem.
func migrationSource() (fs.FS, string) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return nil, v
	}
	return db.Migrations, db.MigrationsDir
}

// createDir is where "create" writes new files. It always targets the
// source tree because embedded files are read-only.
func createDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return sourceMigrations
}
