// Package sql holds the embedded schema migrations for the job store.
package sql

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
