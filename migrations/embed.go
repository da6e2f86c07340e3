// Package migrations contiene las migraciones SQL embebidas de las tablas propias del bot.
package migrations

import "embed"

// FS migraciones goose.
//
//go:embed *.sql
var FS embed.FS
