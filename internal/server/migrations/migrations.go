// Package migrations embeds the SQL files that bootstrap the document store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
