// Package migrations embeds the SQL schema migrations applied by golang-migrate.
//
// Files follow the NNNNNN_description.{up,down}.sql naming scheme.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
