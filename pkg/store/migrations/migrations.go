// Package migrations embeds the PostgreSQL schema for the remote store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
