// Package migrations embeds SQLite schema migrations for demo-day storage.
package migrations

import "embed"

// FS contains embedded SQLite migrations for demo-day storage.
//
//go:embed *.sql
var FS embed.FS
