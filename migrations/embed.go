// Package migrations holds the PostgreSQL schema as goose SQL files.
package migrations

import "embed"

// FS contains every migration, so the migrate binary runs without the source tree.
//
//go:embed *.sql
var FS embed.FS
