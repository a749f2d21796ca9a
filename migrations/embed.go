package migrations

import "embed"

// Files holds the forward-only SQL migrations shared by the SQLite and
// PostgreSQL drivers.
//
//go:embed *.sql
var Files embed.FS
