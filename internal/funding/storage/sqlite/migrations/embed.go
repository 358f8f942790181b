package migrations

import "embed"

// FS contains embedded SQLite migrations for the funding ledger.
//
//go:embed *.sql
var FS embed.FS
