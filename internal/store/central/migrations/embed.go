// Package migrations embeds the PostgreSQL schema migrations for the
// central store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
