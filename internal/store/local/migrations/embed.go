// Package migrations embeds the SQLite schema migrations for the local
// device store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
