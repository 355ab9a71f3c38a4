// Package migrations embeds the SQL schema migrations for both storage
// backends. File names follow NNN_name.sql and run in version order.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
