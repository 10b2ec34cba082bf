// Package migrations embeds the goose SQL files that bootstrap the tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
